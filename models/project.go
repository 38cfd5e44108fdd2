package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents a portfolio project shown on the site.
//
// ID is the store's native identity. Seq is the public, sequential id that the
// API exposes as "id" and uses for lookups.
type Project struct {
	ID           string                      `json:"_id" bson:"_id,omitempty" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Seq          int                         `json:"id" bson:"id" gorm:"column:seq;type:integer;not null;uniqueIndex:idx_project_seq"`
	Title        string                      `json:"title" bson:"title" gorm:"type:text;not null"`
	Category     string                      `json:"category" bson:"category" gorm:"type:text;not null"`
	Img          string                      `json:"img" bson:"img" gorm:"type:text;not null"`
	Client       any                         `json:"client,omitempty" bson:"client,omitempty" gorm:"type:jsonb;serializer:json"`
	Description  string                      `json:"description,omitempty" bson:"description,omitempty" gorm:"type:text"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" bson:"technologies"`
	CreatedAt    time.Time                   `json:"createdAt" bson:"createdAt" gorm:"not null;index:idx_project_created_at"`
	UpdatedAt    time.Time                   `json:"updatedAt" bson:"updatedAt" gorm:"not null;autoUpdateTime:false"`
}

// ProjectInput holds the mutable fields accepted on create and update.
type ProjectInput struct {
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Img          string   `json:"img"`
	Client       any      `json:"client"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Apply copies the mutable fields onto p. Timestamps and ids are untouched.
func (in ProjectInput) Apply(p *Project) {
	p.Title = in.Title
	p.Category = in.Category
	p.Img = in.Img
	p.Client = in.Client
	p.Description = in.Description
	p.Technologies = datatypes.JSONSlice[string](in.Technologies)
	if p.Technologies == nil {
		p.Technologies = datatypes.JSONSlice[string]{}
	}
}
