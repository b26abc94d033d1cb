package memory

import (
	"time"

	"github.com/oksasatya/notemaster-api/internal/domain/entity"
	"github.com/oksasatya/notemaster-api/pkg/helpers"
)

// DemoSeed returns the demo dataset. Every account gets the same password.
func DemoSeed(password string) (Seed, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return Seed{}, err
	}
	users := []*entity.User{
		{
			ID:           "u1",
			Name:         "Admin User",
			Email:        "admin@example.com",
			Role:         entity.RoleAdmin,
			Avatar:       "https://images.unsplash.com/photo-1767362828069-3a8c5324be53?w=150&h=150&fit=crop",
			Status:       entity.StatusActive,
			PasswordHash: hash,
		},
		{
			ID:                "u2",
			Name:              "Sarah Analyst",
			Email:             "sarah@example.com",
			Role:              entity.RoleUser,
			Avatar:            "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=150&h=150&fit=crop",
			AssignedVerticals: []string{"v1", "v2"},
			Status:            entity.StatusActive,
			PasswordHash:      hash,
		},
		{
			ID:                "u3",
			Name:              "Mike Researcher",
			Email:             "mike@example.com",
			Role:              entity.RoleUser,
			Avatar:            "https://images.unsplash.com/photo-1599566150163-29194dcaad36?w=150&h=150&fit=crop",
			AssignedVerticals: []string{"v2"},
			Status:            entity.StatusInactive,
			PasswordHash:      hash,
		},
	}
	verticals := []*entity.Vertical{
		{ID: "v1", Name: "Java", LogoURL: "https://images.unsplash.com/photo-1664570000007-db164768644d?w=100&h=100&fit=crop", Description: "Object-oriented programming language", Status: entity.StatusActive},
		{ID: "v2", Name: "Python", LogoURL: "https://images.unsplash.com/photo-1667372531881-6f975b1c86db?w=100&h=100&fit=crop", Description: "Data science and web development", Status: entity.StatusActive},
		{ID: "v3", Name: "React", LogoURL: "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=100&h=100&fit=crop", Description: "Frontend library for UI", Status: entity.StatusActive},
	}
	subtitles := []*entity.Subtitle{
		{ID: "s1", VerticalID: "v1", Name: "Core Java", Description: "Fundamentals of Java", Status: entity.StatusActive},
		{ID: "s2", VerticalID: "v1", Name: "Spring Boot", Description: "Enterprise Framework", Status: entity.StatusActive},
		{ID: "s3", VerticalID: "v2", Name: "Django", Description: "Web Framework", Status: entity.StatusActive},
		{ID: "s4", VerticalID: "v2", Name: "Pandas", Description: "Data Analysis", Status: entity.StatusActive},
	}
	notes := []*entity.Note{
		{
			ID: "n1", VerticalID: "v1", SubtitleID: "s1", AuthorID: "u2",
			Question:    "What is the projected growth of vertical SaaS in 2026?",
			Answer:      "Vertical SaaS is expected to grow by 18% YoY driven by AI integration...",
			CompanyName: "TechTrends Inc.",
			Status:      entity.NoteApproved,
			CreatedAt:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			Tags:        []string{"market size", "growth"},
		},
		{
			ID: "n2", VerticalID: "v1", SubtitleID: "s1", AuthorID: "u2",
			Question:    "Competitors in the CRM space for small businesses?",
			Answer:      "HubSpot, Zoho, and Freshworks remain top contenders...",
			CompanyName: "MarketWatch",
			Status:      entity.NotePending,
			CreatedAt:   time.Date(2026, 1, 28, 14, 30, 0, 0, time.UTC),
			Tags:        []string{"competition", "crm"},
		},
		{
			ID: "n3", VerticalID: "v2", SubtitleID: "s3", AuthorID: "u3",
			Question:    "Impact of new regulations on insulin pricing?",
			Answer:      "New caps are expected to reduce margins but increase volume...",
			CompanyName: "PharmaDaily",
			Status:      entity.NoteRejected,
			CreatedAt:   time.Date(2026, 1, 20, 9, 15, 0, 0, time.UTC),
			Tags:        []string{"regulation", "pricing"},
		},
	}
	return Seed{Users: users, Verticals: verticals, Subtitles: subtitles, Notes: notes}, nil
}
