// Command seed fills the database with demo data for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/jordanlanch/leadflow/config"
	"github.com/jordanlanch/leadflow/pkg/database"
	"github.com/jordanlanch/leadflow/pkg/models"
)

var (
	statuses   = []models.LeadStatus{models.StatusLead, models.StatusQualified, models.StatusAppointmentBooked, models.StatusDisqualified}
	priorities = []models.LeadPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	sources    = []string{"website", "referral", "cold_call", "linkedin", "conference"}
	outcomes   = []models.CallOutcome{models.OutcomeAnswered, models.OutcomeVoicemail, models.OutcomeNoAnswer, models.OutcomeBusy}
)

func main() {
	count := flag.Int("count", 50, "number of leads to create")
	seed := flag.Int64("seed", 0, "rng seed, 0 uses current time")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
		rand.Seed(*seed)
	}

	cfg := config.Load()
	db, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created := 0
	for i := 0; i < *count; i++ {
		lead, err := db.CreateLead(ctx, fakeLead())
		if err != nil {
			log.Printf("skipping lead: %v", err)
			continue
		}
		created++

		for j := 0; j < rand.Intn(3); j++ {
			if _, err := db.CreatePhoneCall(ctx, fakeCall(lead.ID)); err != nil {
				log.Printf("skipping call for %s: %v", lead.ID, err)
			}
		}
		for j := 0; j < rand.Intn(3); j++ {
			if _, err := db.CreateEmail(ctx, fakeEmail(lead.ID)); err != nil {
				log.Printf("skipping email for %s: %v", lead.ID, err)
			}
		}
		if rand.Intn(2) == 0 {
			if _, err := db.CreateComment(ctx, fakeComment(lead.ID)); err != nil {
				log.Printf("skipping comment for %s: %v", lead.ID, err)
			}
		}
	}

	fmt.Printf("seeded %d leads\n", created)
}

func fakeLead() models.Lead {
	return models.Lead{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Phone:    gofakeit.Phone(),
		Status:   statuses[rand.Intn(len(statuses))],
		Priority: priorities[rand.Intn(len(priorities))],
		Source:   sources[rand.Intn(len(sources))],
		Notes:    gofakeit.Sentence(12),
	}
}

func fakeCall(leadID string) models.PhoneCall {
	outcome := outcomes[rand.Intn(len(outcomes))]
	call := models.PhoneCall{
		LeadID:      leadID,
		CallDate:    gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now()),
		CallOutcome: outcome,
	}
	if outcome == models.OutcomeAnswered {
		call.Duration = 60 + rand.Intn(900)
		call.Transcript = gofakeit.Paragraph(2, 4, 12, " ")
		call.AIAnalysis = models.CallAnalysis{
			InterestLevel:   1 + rand.Intn(10),
			BudgetQualified: gofakeit.Bool(),
			DecisionMaker:   gofakeit.Bool(),
			Timeline:        gofakeit.RandomString([]string{"", "this quarter", "next quarter", "this year"}),
			PainPoints:      []string{gofakeit.BuzzWord(), gofakeit.BuzzWord()},
			NextSteps:       gofakeit.Sentence(8),
		}
	}
	return call
}

func fakeEmail(leadID string) models.Email {
	return models.Email{
		LeadID:      leadID,
		EmailType:   models.EmailOutbound,
		Subject:     gofakeit.Sentence(6),
		Content:     gofakeit.Paragraph(1, 3, 15, "\n"),
		SentAt:      gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now()),
		EmailStatus: models.EmailSent,
	}
}

func fakeComment(leadID string) models.Comment {
	return models.Comment{
		LeadID:     leadID,
		UserID:     gofakeit.UUID(),
		Content:    gofakeit.Sentence(15),
		IsInternal: true,
	}
}
