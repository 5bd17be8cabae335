package schema

import (
	"fmt"

	"github.com/artsfest/festsync/pkg/festival"
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&FestivalInfo{},
		&Team{},
		&Candidate{},
		&Programme{},
		&Result{},
	}
}

// TableNames returns the tables of all models in migration order.
func TableNames() []string {
	models := AllModels()
	res := make([]string, len(models))
	for i, m := range models {
		res[i] = m.(Model).TableName()
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// New returns an empty model for the table of a kind.
func New(k festival.Kind) (Model, error) {
	switch k {
	case festival.KindBasic:
		return &FestivalInfo{}, nil
	case festival.KindTeams:
		return &Team{}, nil
	case festival.KindCandidates:
		return &Candidate{}, nil
	case festival.KindProgrammes:
		return &Programme{}, nil
	case festival.KindResults:
		return &Result{}, nil
	default:
		return nil, fmt.Errorf("no table for kind %q", k)
	}
}

// FromRecord converts a domain record into its row.
func FromRecord(rec festival.Record) Model {
	m := rec.Base()
	switch r := rec.(type) {
	case *festival.Info:
		return &FestivalInfo{
			ID: m.ID, Key: r.Key, Value: r.Value,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		}
	case *festival.Team:
		return &Team{
			ID: m.ID, Name: r.Name, Color: r.Color,
			Description: r.Description, Captain: r.Captain,
			MemberCount: r.MemberCount, Points: r.Points,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		}
	case *festival.Candidate:
		return &Candidate{
			ID: m.ID, ChestNumber: r.ChestNumber, Name: r.Name,
			Team: r.Team, Section: string(r.Section), Points: r.Points,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		}
	case *festival.Programme:
		return &Programme{
			ID: m.ID, Code: r.Code, Name: r.Name,
			Category: string(r.Category), Section: string(r.Section),
			PositionType: string(r.PositionType), Status: string(r.Status),
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		}
	case *festival.Result:
		return &Result{
			ID: m.ID, ProgrammeCode: r.ProgrammeCode,
			ChestNumber: r.ChestNumber, Position: r.Position,
			Grade: string(r.Grade), Points: r.Points,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		}
	default:
		panic(fmt.Sprintf("schema: unsupported record %T", rec))
	}
}
