package models

import "time"

// Feedback is a testimonial left by a client or colleague. It stays hidden
// from the public site until Approved is set.
type Feedback struct {
	ID        string    `json:"_id" bson:"_id,omitempty" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" bson:"name" gorm:"type:text;not null"`
	Role      string    `json:"role" bson:"role" gorm:"type:text;not null"`
	Company   string    `json:"company" bson:"company" gorm:"type:text;not null"`
	Email     string    `json:"email" bson:"email" gorm:"type:text;not null"`
	Subject   string    `json:"subject" bson:"subject" gorm:"type:text;not null"`
	Message   string    `json:"message" bson:"message" gorm:"type:text;not null"`
	Approved  bool      `json:"approved" bson:"approved" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"not null;index:idx_feedback_created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
