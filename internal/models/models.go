package models

import (
	"time"
)

// Role decides which pages a user may open.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Moderation status of a job as reported by the API.
type JobStatus string

const (
	StatusPendingReview JobStatus = "pending_review"
	StatusActive        JobStatus = "active"
	StatusRejected      JobStatus = "rejected"
)

// Feedback is the thumbs signal a viewer left on a job. The empty value
// means no feedback.
type Feedback string

const (
	FeedbackUp   Feedback = "up"
	FeedbackDown Feedback = "down"
)

// Source tells whether a company came from the scraper or the admin form.
type Source string

const (
	SourceScraped Source = "scraped"
	SourceManual  Source = "manual"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// Session is the authenticated identity held by a client. A non-empty
// Token always comes with a non-nil User.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Job mirrors the API's job document. Field names follow the upstream wire format.
type Job struct {
	ID              string    `json:"_id"`
	JobID           string    `json:"JobID,omitempty"`
	Title           string    `json:"JobTitle"`
	Company         string    `json:"Company"`
	Location        string    `json:"Location"`
	ApplicationURL  string    `json:"ApplicationURL"`
	PostedDate      *string   `json:"PostedDate"`
	Description     string    `json:"Description"`
	GermanRequired  bool      `json:"GermanRequired,omitempty"`
	Feedback        Feedback  `json:"thumbStatus,omitempty"`
	Department      string    `json:"Department,omitempty"`
	ContractType    string    `json:"ContractType,omitempty"`
	SourceSite      string    `json:"sourceSite,omitempty"`
	Status          JobStatus `json:"Status,omitempty"`
	ConfidenceScore float64   `json:"ConfidenceScore"`
}

// Company is one entry of the directory aggregate.
type Company struct {
	ID        string   `json:"_id,omitempty"`
	Name      string   `json:"companyName"`
	OpenRoles int      `json:"openRoles"`
	Cities    []string `json:"cities"`
	Domain    string   `json:"domain"`
	Source    Source   `json:"source,omitempty"`
	Logo      string   `json:"logo,omitempty"`
	Industry  string   `json:"industry,omitempty"`
}

// WebSession is a persisted browser session row used by the gorm slot.
type WebSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`

	Token    string `gorm:"not null" json:"-"`
	UserJSON string `gorm:"type:text" json:"-"`
}
