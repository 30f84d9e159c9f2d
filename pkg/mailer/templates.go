package mailer

import "fmt"

// CancellationSubject is used for forced cancellations during a schedule
// block.
func CancellationSubject(specialtyName string) string {
	return fmt.Sprintf("Appointment cancelled: %s", specialtyName)
}

// CancellationHTML renders the mail sent to a patient displaced by a doctor's
// schedule closure.
func CancellationHTML(patientName, specialtyName, doctorName, date, timeOfDay string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; padding: 25px; border: 1px solid #e2e8f0; border-radius: 12px; max-width: 600px; margin: auto;">
  <div style="text-align: center; border-bottom: 2px solid #0097A7; padding-bottom: 15px; margin-bottom: 20px;">
    <h2 style="color: #0097A7; margin: 0;">MedBook Clinic</h2>
  </div>
  <h3 style="color: #d32f2f;">Appointment Cancellation Notice</h3>
  <p>Dear <strong>%s</strong>,</p>
  <p>Your appointment scheduled for <strong>%s</strong> has been cancelled due to a mandatory change in the doctor's schedule.</p>
  <table style="background-color: #f8fafc; padding: 15px; width: 100%%; border-radius: 8px; margin-top: 20px; border-left: 4px solid #0097A7;">
    <tr><td style="width: 120px; color: #64748b;"><strong>Department:</strong></td><td style="font-weight: bold;">%s</td></tr>
    <tr><td style="color: #64748b;"><strong>Doctor:</strong></td><td style="font-weight: bold;">%s</td></tr>
    <tr><td style="color: #64748b;"><strong>Cancelled time:</strong></td><td style="color: #d32f2f; font-weight: bold;">%s</td></tr>
  </table>
  <p style="margin-top: 25px;">You can book a new appointment through the system. We apologize for the inconvenience.</p>
  <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 20px 0;">
  <small style="color: #94a3b8;">MedBook Clinic | This is an automated message.</small>
</div>`, patientName, date, specialtyName, doctorName, timeOfDay)
}

// ReminderSubject is used by the nightly reminder sweep.
const ReminderSubject = "Appointment reminder"

// ReminderHTML renders the same-day reminder mail.
func ReminderHTML(date, timeOfDay, doctorName, specialtyName string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; border: 1px solid #ddd; padding: 20px; border-radius: 10px; max-width: 600px; background-color: #f9f9f9;">
  <h2 style="color: #2c3e50; text-align: center;">Appointment Reminder</h2>
  <p>You have an appointment at our clinic today. Please arrive on time.</p>
  <div style="background-color: #fff; padding: 15px; border-left: 5px solid #3498db; margin: 20px 0;">
    <p><strong>Date:</strong> %s</p>
    <p><strong>Time:</strong> %s</p>
    <p><strong>Doctor:</strong> %s</p>
    <p><strong>Department:</strong> %s</p>
  </div>
  <hr style="border: 0; border-top: 1px solid #eee;">
  <p style="color: #7f8c8d; font-size: 12px; text-align: center;">This is an automated message.<br>MedBook Clinic</p>
</div>`, date, timeOfDay, doctorName, specialtyName)
}
