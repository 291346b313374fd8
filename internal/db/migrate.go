package db

import (
	"context"
	"errors"
	"news-cms/internal/domain"
	"news-cms/internal/page"
	"news-cms/internal/section"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.Page{},
		&domain.Section{},
	)

	if err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	log.Info().Msg("Database schema migrated successfully")
}

type seedSection struct {
	kind    string
	content string
}

type seedPage struct {
	page     domain.Page
	sections []seedSection
}

func strPtr(s string) *string { return &s }

var seedPages = []seedPage{
	{
		page: domain.Page{
			Title:          "Home",
			Slug:           "home",
			Status:         domain.PageStatusPublished,
			SEOTitle:       strPtr("Welcome to Our Website"),
			SEODescription: strPtr("This is the homepage of our custom CMS website"),
		},
		sections: []seedSection{
			{domain.SectionHero, `{"heading":"Welcome to Our Custom CMS","subheading":"Build beautiful websites with ease","image":"/uploads/hero.png","buttonText":"Get Started","buttonLink":"/start"}`},
			{domain.SectionText, `{"title":"Why Choose Us?","content":"<p>Our custom CMS provides you with complete control over your website content.</p>"}`},
			{domain.SectionCTA, `{"title":"Ready to Get Started?","description":"Join thousands of satisfied customers","buttonText":"Contact Us","buttonLink":"/contact"}`},
		},
	},
	{
		page: domain.Page{
			Title:          "About Us",
			Slug:           "about",
			Status:         domain.PageStatusPublished,
			SEOTitle:       strPtr("About Us - Our Story"),
			SEODescription: strPtr("Learn more about our company and mission"),
		},
		sections: []seedSection{
			{domain.SectionText, `{"title":"Our Story","content":"<p>We are a team of passionate developers building custom solutions.</p>"}`},
			{domain.SectionFAQ, `{"title":"Frequently Asked Questions","items":[{"question":"How do I edit a page?","answer":"Open it in the admin panel and edit its sections."}]}`},
		},
	},
}

// SeedData seeds the database with initial data (for development only)
func SeedData() {
	ctx := context.Background()
	pageRepo := page.NewRepository(AppDb)
	sectionRepo := section.NewRepository(AppDb)

	for _, seed := range seedPages {
		_, err := pageRepo.FindBySlug(ctx, seed.page.Slug, false)
		if err == nil {
			log.Info().Str("slug", seed.page.Slug).Msg("Seed page already exists")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("slug", seed.page.Slug).Msg("Error looking up seed page")
			continue
		}

		p := seed.page
		if err := pageRepo.Create(ctx, &p); err != nil {
			log.Error().Err(err).Str("slug", p.Slug).Msg("Error creating seed page")
			continue
		}

		for _, s := range seed.sections {
			err := sectionRepo.Create(ctx, &domain.Section{
				PageID:  p.ID,
				Type:    s.kind,
				Content: datatypes.JSON(s.content),
			}, nil)
			if err != nil {
				log.Error().Err(err).Str("slug", p.Slug).Msg("Error creating seed section")
			}
		}
		log.Info().Str("slug", p.Slug).Int("sections", len(seed.sections)).Msg("Created seed page")
	}
}
