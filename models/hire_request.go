package models

import "time"

// HireRequest is a message sent through the hire-me form. It is never
// modified after creation.
type HireRequest struct {
	ID                 string    `json:"_id" bson:"_id,omitempty" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name               string    `json:"name" bson:"name" gorm:"type:text;not null"`
	Email              string    `json:"email" bson:"email" gorm:"type:text;not null"`
	Company            string    `json:"company,omitempty" bson:"company,omitempty" gorm:"type:text"`
	ProjectType        string    `json:"projectType" bson:"projectType" gorm:"type:text;not null"`
	ProjectDescription string    `json:"projectDescription" bson:"projectDescription" gorm:"type:text;not null"`
	Budget             *float64  `json:"budget,omitempty" bson:"budget,omitempty"`
	Timeframe          string    `json:"timeframe,omitempty" bson:"timeframe,omitempty" gorm:"type:text"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt" gorm:"not null;index:idx_hire_request_created_at"`
}
