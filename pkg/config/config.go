// Package config는 애플리케이션 설정을 관리하는 패키지입니다.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// 설정 디렉토리 경로
const configDir = "configs"

// Load는 서비스 이름에 해당하는 설정을 읽어 target 구조체(mapstructure 태그)에 채웁니다.
//
// 우선순위: 환경 변수({SERVICE}_{SECTION}_{KEY}) > 설정 파일 > defaults.
// 설정 파일은 CONFIG_PATH가 지정되면 해당 파일을, 아니면 configs/{APP_ENV}/{service}.yaml,
// configs/example/{service}.yaml 순서로 찾습니다. 파일이 없으면 defaults와 환경 변수만 사용합니다.
func Load(serviceName string, target interface{}, defaults map[string]interface{}) error {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 환경 변수 바인딩 설정
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev" // 기본 환경은 dev
		}
		v.SetConfigName(serviceName)
		v.AddConfigPath(filepath.Join(configDir, env))
		v.AddConfigPath(filepath.Join(configDir, "example"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("설정 파싱 실패: %w", err)
	}

	return nil
}
