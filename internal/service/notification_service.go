package service

import (
	"fmt"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/config"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// RescheduleDetails carries what the patient needs to know about their new
// appointment.
type RescheduleDetails struct {
	HospitalName   string
	DepartmentName string
	DoctorName     string
	Date           time.Time
	SlotTime       entity.SlotTime
}

// Notifier delivers a reschedule notice. Delivery is fire-and-forget from the
// workflow's perspective: failures are logged by callers, never propagated.
type Notifier interface {
	NotifyReschedule(patientEmail string, details RescheduleDetails) error
}

// MailNotifier sends reschedule notices over SMTP.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

func NewMailNotifier(cfg config.MailConfig, log *logrus.Logger) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (n *MailNotifier) NotifyReschedule(patientEmail string, details RescheduleDetails) error {
	body := fmt.Sprintf(`Dear Patient,

You missed your recent appointment. We have automatically rescheduled it for you. Here are the new details:
- Hospital: %s
- Department: %s
- Doctor: %s
- Date: %s
- Time: %s

Please ensure you attend this appointment. If you have any questions, feel free to contact us.

Best regards,
Patient Appointment System
`,
		details.HospitalName,
		details.DepartmentName,
		details.DoctorName,
		calendar.FormatDate(details.Date),
		details.SlotTime,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", patientEmail)
	m.SetHeader("Subject", "Appointment Rescheduled Due to No-Show")
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send reschedule notification to %s: %w", patientEmail, err)
	}

	n.log.Infof("Reschedule notification sent to %s", patientEmail)
	return nil
}
