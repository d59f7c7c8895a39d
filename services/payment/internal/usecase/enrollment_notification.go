package usecase

import (
	"fmt"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const enrollmentNotificationTitle = "Học viên mới đăng ký khóa học"

// newEnrollmentNotification builds the message telling a course's teacher that
// a student paid for the course. student and teacher may be nil.
func newEnrollmentNotification(payment *model.Payment, course *model.Course, student, teacher *model.User) dto.NotificationTask {
	studentName := fmt.Sprintf("Học viên #%d", payment.StudentID)
	if student != nil {
		studentName = student.DisplayName()
	}

	courseName := course.CourseName
	if courseName == "" {
		courseName = course.Title
	}

	task := dto.NotificationTask{
		SenderID:   payment.StudentID,
		ReceiverID: course.TeacherID,
		CourseID:   course.ID,
		Title:      enrollmentNotificationTitle,
		Content: fmt.Sprintf("%s đã thanh toán %s VNĐ và đăng ký khóa học \"%s\".",
			studentName, formatAmount(payment.Amount), courseName),
	}

	if teacher != nil {
		task.ReceiverEmail = teacher.Email
		task.ReceiverName = teacher.DisplayName()
	}

	return task
}

// formatAmount renders amount with Vietnamese digit grouping, e.g. 1.250.000
func formatAmount(amount decimal.Decimal) string {
	p := message.NewPrinter(language.Vietnamese)
	if amount.IsInteger() {
		return p.Sprintf("%d", amount.IntPart())
	}
	return p.Sprint(number.Decimal(amount.InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
