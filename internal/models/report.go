package models

import "time"

// Report target types.
const (
	ReportTargetPost    = "POST"
	ReportTargetUser    = "USER"
	ReportTargetComment = "COMMENT"
)

// Report statuses.
const (
	ReportStatusNew      = "NEW"
	ReportStatusReviewed = "REVIEWED"
)

// Report is a user-filed complaint against a post, user or comment.
type Report struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReporterID uint      `json:"reporter_id" gorm:"index"`
	TargetType string    `json:"target_type" gorm:"size:20"`
	TargetID   uint      `json:"target_id" gorm:"index"`
	Reason     string    `json:"reason" gorm:"type:text"`
	Status     string    `json:"status" gorm:"size:20;default:NEW;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateReportRequest defines the request body for filing a report
type CreateReportRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=POST USER COMMENT"`
	TargetID   uint   `json:"target_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,min=1,max=1000"`
}
