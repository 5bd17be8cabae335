// Package schema provides the database models of the festival tables.
//
// Models carry two sets of tags: gorm tags drive AutoMigrate, db tags name
// the columns used by the hand-written SQL of the record store. Column
// order in the struct is the order used in SELECT and INSERT statements.
package schema

import (
	"time"

	"github.com/artsfest/festsync/pkg/festival"
)

// Model is a database row of one of the festival tables.
type Model interface {
	// TableName returns the PostgreSQL table name for this model.
	TableName() string

	// Record converts the row into its domain record.
	Record() festival.Record
}

// Team is a row of the teams table.
type Team struct {
	ID          string    `db:"id"           gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `db:"name"         gorm:"type:varchar(255);not null;index"`
	Color       string    `db:"color"        gorm:"type:varchar(50);not null;default:''"`
	Description string    `db:"description"  gorm:"type:text;not null;default:''"`
	Captain     string    `db:"captain"      gorm:"type:varchar(255);not null;default:''"`
	MemberCount int       `db:"member_count" gorm:"not null;default:0"`
	Points      int       `db:"points"       gorm:"not null;default:0"`
	CreatedAt   time.Time `db:"created_at"   gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time `db:"updated_at"   gorm:"type:timestamptz;not null"`
}

func (Team) TableName() string { return festival.KindTeams.Collection() }

func (m *Team) Record() festival.Record {
	return &festival.Team{
		Meta:        meta(m.ID, m.CreatedAt, m.UpdatedAt),
		Name:        m.Name,
		Color:       m.Color,
		Description: m.Description,
		Captain:     m.Captain,
		MemberCount: m.MemberCount,
		Points:      m.Points,
	}
}

// Candidate is a row of the candidates table.
type Candidate struct {
	ID          string    `db:"id"           gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChestNumber string    `db:"chest_number" gorm:"type:varchar(50);not null;index"`
	Name        string    `db:"name"         gorm:"type:varchar(255);not null"`
	Team        string    `db:"team"         gorm:"type:varchar(255);not null;index"`
	Section     string    `db:"section"      gorm:"type:varchar(20);not null;default:''"`
	Points      int       `db:"points"       gorm:"not null;default:0"`
	CreatedAt   time.Time `db:"created_at"   gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time `db:"updated_at"   gorm:"type:timestamptz;not null"`
}

func (Candidate) TableName() string { return festival.KindCandidates.Collection() }

func (m *Candidate) Record() festival.Record {
	return &festival.Candidate{
		Meta:        meta(m.ID, m.CreatedAt, m.UpdatedAt),
		ChestNumber: m.ChestNumber,
		Name:        m.Name,
		Team:        m.Team,
		Section:     festival.Section(m.Section),
		Points:      m.Points,
	}
}

// Programme is a row of the programmes table.
type Programme struct {
	ID           string    `db:"id"            gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code         string    `db:"code"          gorm:"type:varchar(50);not null;index"`
	Name         string    `db:"name"          gorm:"type:varchar(255);not null;default:''"`
	Category     string    `db:"category"      gorm:"type:varchar(20);not null;default:''"`
	Section      string    `db:"section"       gorm:"type:varchar(20);not null;default:''"`
	PositionType string    `db:"position_type" gorm:"type:varchar(20);not null;default:''"`
	Status       string    `db:"status"        gorm:"type:varchar(20);not null;default:''"`
	CreatedAt    time.Time `db:"created_at"    gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time `db:"updated_at"    gorm:"type:timestamptz;not null"`
}

func (Programme) TableName() string { return festival.KindProgrammes.Collection() }

func (m *Programme) Record() festival.Record {
	return &festival.Programme{
		Meta:         meta(m.ID, m.CreatedAt, m.UpdatedAt),
		Code:         m.Code,
		Name:         m.Name,
		Category:     festival.Category(m.Category),
		Section:      festival.Section(m.Section),
		PositionType: festival.PositionType(m.PositionType),
		Status:       festival.Status(m.Status),
	}
}

// Result is a row of the results table.
type Result struct {
	ID            string    `db:"id"             gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProgrammeCode string    `db:"programme_code" gorm:"type:varchar(50);not null;index:idx_results_key"`
	ChestNumber   string    `db:"chest_number"   gorm:"type:varchar(50);not null;index:idx_results_key"`
	Position      int       `db:"position"       gorm:"not null;default:0"`
	Grade         string    `db:"grade"          gorm:"type:varchar(2);not null;default:''"`
	Points        int       `db:"points"         gorm:"not null;default:0"`
	CreatedAt     time.Time `db:"created_at"     gorm:"type:timestamptz;not null"`
	UpdatedAt     time.Time `db:"updated_at"     gorm:"type:timestamptz;not null"`
}

func (Result) TableName() string { return festival.KindResults.Collection() }

func (m *Result) Record() festival.Record {
	return &festival.Result{
		Meta:          meta(m.ID, m.CreatedAt, m.UpdatedAt),
		ProgrammeCode: m.ProgrammeCode,
		ChestNumber:   m.ChestNumber,
		Position:      m.Position,
		Grade:         festival.Grade(m.Grade),
		Points:        m.Points,
	}
}

// FestivalInfo is a row of the festival_info table. Its id is derived
// from the key, so the same setting gets the same id in every database.
type FestivalInfo struct {
	ID        string    `db:"id"         gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key       string    `db:"key"        gorm:"type:varchar(255);not null;index"`
	Value     string    `db:"value"      gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `db:"created_at" gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `db:"updated_at" gorm:"type:timestamptz;not null"`
}

func (FestivalInfo) TableName() string { return festival.KindBasic.Collection() }

func (m *FestivalInfo) Record() festival.Record {
	return &festival.Info{
		Meta:  meta(m.ID, m.CreatedAt, m.UpdatedAt),
		Key:   m.Key,
		Value: m.Value,
	}
}

func meta(id string, created, updated time.Time) festival.Meta {
	return festival.Meta{
		ID:        id,
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
	}
}
