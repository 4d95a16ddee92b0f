// Package mailer implements the best-effort email side channel. Sends are
// queued by the API and performed by the worker; a failed send is logged,
// never retried, and never fails the triggering request.
package mailer

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Job is the payload published to the queue for one outbound mail.
type Job struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Encode serializes a job for the queue.
func (j Job) Encode() []byte {
	b, _ := json.Marshal(j)
	return b
}

// DecodeJob parses a queued job payload.
func DecodeJob(data []byte) (Job, error) {
	var j Job
	err := json.Unmarshal(data, &j)
	return j, err
}

// Mailer delivers a single message.
type Mailer interface {
	Send(job Job) error
}

// Console logs messages instead of sending them; the dev default when
// sendgrid is not configured.
type Console struct{}

// Send logs the message.
func (Console) Send(job Job) error {
	log.Printf("mail (console): to=%s subject=%q bytes=%d", job.To, job.Subject, len(job.HTML))
	return nil
}

// GradedJob builds the assignment-graded mail.
func GradedJob(to, studentName, assignmentTitle, grade, feedback, frontendURL string) Job {
	body := fmt.Sprintf(`<h2>Your assignment has been graded!</h2>
<p>Dear %s,</p>
<p><strong>Assignment:</strong> %s</p>
<p><strong>Grade:</strong> %s</p>`, studentName, assignmentTitle, grade)
	if feedback != "" {
		body += fmt.Sprintf("\n<p><strong>Feedback:</strong> %s</p>", feedback)
	}
	body += fmt.Sprintf("\n<p><a href=%q>Login to view more details.</a></p>", frontendURL+"/login")
	return Job{To: to, Subject: "Assignment Graded: " + assignmentTitle, HTML: body}
}

// LeaveDecisionJob builds the leave approved/rejected mail.
func LeaveDecisionJob(to, studentName, status string, start, end time.Time, comments, reviewer string) Job {
	body := fmt.Sprintf(`<h2>Leave Request %s</h2>
<p>Dear %s,</p>
<p>Your leave request from %s to %s has been <strong>%s</strong>.</p>`,
		status, studentName, start.Format("02 Jan 2006"), end.Format("02 Jan 2006"), status)
	if comments != "" {
		body += fmt.Sprintf("\n<p><strong>Comments:</strong> %s</p>", comments)
	}
	body += fmt.Sprintf("\n<p>Reviewed by: %s</p>", reviewer)
	return Job{To: to, Subject: "Leave Request " + status, HTML: body}
}

// MentoringScheduledJob builds the session-scheduled mail.
func MentoringScheduledJob(to, studentName, topic, title string, scheduled time.Time, duration int, meetingLink, location, facultyName string) Job {
	body := fmt.Sprintf(`<h2>New Mentoring Session Scheduled</h2>
<p>Dear %s,</p>
<ul>
<li><strong>Topic:</strong> %s</li>
<li><strong>Title:</strong> %s</li>
<li><strong>Date &amp; Time:</strong> %s</li>
<li><strong>Duration:</strong> %d minutes</li>`,
		studentName, topic, title, scheduled.Format("02 Jan 2006 15:04"), duration)
	if meetingLink != "" {
		body += fmt.Sprintf("\n<li><strong>Meeting Link:</strong> <a href=%q>%s</a></li>", meetingLink, meetingLink)
	}
	if location != "" {
		body += fmt.Sprintf("\n<li><strong>Location:</strong> %s</li>", location)
	}
	body += fmt.Sprintf("\n</ul>\n<p>Faculty: %s</p>", facultyName)
	return Job{To: to, Subject: "Mentoring Session Scheduled", HTML: body}
}

// MentoringCancelledJob builds the session-cancelled mail.
func MentoringCancelledJob(to, studentName, topic string, scheduled time.Time) Job {
	body := fmt.Sprintf(`<h2>Mentoring Session Cancelled</h2>
<p>Dear %s,</p>
<p>The mentoring session on <strong>%s</strong> scheduled for %s has been cancelled.</p>
<p>Please check the portal for any rescheduled sessions.</p>`,
		studentName, topic, scheduled.Format("02 Jan 2006 15:04"))
	return Job{To: to, Subject: "Mentoring Session Cancelled", HTML: body}
}
