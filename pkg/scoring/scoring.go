// Package scoring qualifies leads from their call and email history using an
// LLM, falling back to a rule-based pass when no model is configured.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/models"
)

// EvaluatorVersion stamps every evaluation so scoring changes are traceable.
const EvaluatorVersion = "bant-v2"

const systemPrompt = `You are a sales qualification analyst. You evaluate leads
using the BANT framework (Budget, Authority, Need, Timeline) from transcripts
and email exchanges. Respond with a single JSON object and nothing else:
{"qualified": bool, "score": 1-100, "confidence": 0.0-1.0,
 "criteria": {"budget": bool, "authority": bool, "need": bool, "timeline": bool},
 "reason": string, "strengths": [string], "concerns": [string],
 "recommendation": string}`

// chatClient is the slice of the OpenAI client the evaluator needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Evaluator produces qualification evaluations and records them through the
// mutation gateway so the dashboard sees them immediately.
type Evaluator struct {
	client  chatClient
	model   string
	gateway *datasync.Gateway
	log     logger.Logger
}

// New builds an evaluator. An empty apiKey disables the LLM; evaluations then
// come from the rule-based scorer.
func New(apiKey, model string, gateway *datasync.Gateway, log logger.Logger) *Evaluator {
	if log == nil {
		log = logger.Default()
	}
	e := &Evaluator{model: model, gateway: gateway, log: log}
	if model == "" {
		e.model = openai.GPT4oMini
	}
	if apiKey != "" {
		e.client = openai.NewClient(apiKey)
	}
	return e
}

// EvaluateCall scores a lead from a phone call and stores the evaluation.
func (e *Evaluator) EvaluateCall(ctx context.Context, lead models.Lead, call models.PhoneCall) (models.Evaluation, error) {
	if strings.TrimSpace(call.Transcript) == "" {
		return models.Evaluation{}, domain.NewValidationError("call has no transcript to evaluate")
	}
	prompt := fmt.Sprintf(
		"Lead: %s (%s)\nSource: %s\nNotes: %s\n\nCall outcome: %s, duration %ds.\nTranscript:\n%s",
		lead.Name, lead.Email, lead.Source, lead.Notes, call.CallOutcome, call.Duration, call.Transcript)
	return e.evaluate(ctx, lead, models.EvaluationPhone, prompt, callVerdict(call))
}

// EvaluateEmail scores a lead from an email exchange and stores the evaluation.
func (e *Evaluator) EvaluateEmail(ctx context.Context, lead models.Lead, email models.Email) (models.Evaluation, error) {
	prompt := fmt.Sprintf(
		"Lead: %s (%s)\nSource: %s\nNotes: %s\n\nEmail (%s) subject %q, status %s:\n%s",
		lead.Name, lead.Email, lead.Source, lead.Notes, email.EmailType, email.Subject, email.EmailStatus, email.Content)
	return e.evaluate(ctx, lead, models.EvaluationEmail, prompt, emailVerdict(email))
}

func (e *Evaluator) evaluate(ctx context.Context, lead models.Lead, typ models.EvaluationType, prompt string, fallback verdict) (models.Evaluation, error) {
	v := fallback
	if e.client != nil {
		llm, err := e.ask(ctx, prompt)
		if err != nil {
			e.log.Warn("llm evaluation failed, using rule-based verdict", "lead_id", lead.ID, "error", err)
		} else {
			v = llm
		}
	}

	eval := models.Evaluation{
		LeadID:             lead.ID,
		EvaluationType:     typ,
		QualificationScore: v.Score,
		EvaluationResult: models.EvaluationResult{
			Qualified:      v.Qualified,
			Reason:         v.Reason,
			Strengths:      v.Strengths,
			Concerns:       v.Concerns,
			Recommendation: v.Recommendation,
		},
		CriteriaMet:      v.Criteria,
		ConfidenceScore:  v.Confidence,
		EvaluatorVersion: EvaluatorVersion,
	}
	return e.gateway.CreateEvaluation(ctx, eval)
}

type verdict struct {
	Qualified      bool               `json:"qualified"`
	Score          int                `json:"score"`
	Confidence     float64            `json:"confidence"`
	Criteria       models.CriteriaMet `json:"criteria"`
	Reason         string             `json:"reason"`
	Strengths      []string           `json:"strengths"`
	Concerns       []string           `json:"concerns"`
	Recommendation string             `json:"recommendation"`
}

func (e *Evaluator) ask(ctx context.Context, prompt string) (verdict, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return verdict{}, err
	}
	if len(resp.Choices) == 0 {
		return verdict{}, fmt.Errorf("empty completion response")
	}

	var v verdict
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "` \n")
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return verdict{}, fmt.Errorf("parse completion: %w", err)
	}
	v.Score = clamp(v.Score, 1, 100)
	if v.Confidence < 0 || v.Confidence > 1 {
		v.Confidence = 0.5
	}
	return v, nil
}

// callVerdict is the rule-based scorer used without an LLM. It reads the
// structured analysis attached to the call record.
func callVerdict(call models.PhoneCall) verdict {
	a := call.AIAnalysis
	v := verdict{
		Criteria: models.CriteriaMet{
			Budget:    a.BudgetQualified,
			Authority: a.DecisionMaker,
			Need:      len(a.PainPoints) > 0,
			Timeline:  a.Timeline != "",
		},
		Confidence:     0.4,
		Reason:         "Rule-based verdict from call analysis signals.",
		Recommendation: "Review the transcript and confirm qualification manually.",
	}
	score := 10 * a.InterestLevel
	if call.CallOutcome == models.OutcomeAnswered {
		score += 10
	}
	for _, met := range []bool{v.Criteria.Budget, v.Criteria.Authority, v.Criteria.Need, v.Criteria.Timeline} {
		if met {
			score += 10
		}
	}
	v.Score = clamp(score, 1, 100)
	v.Qualified = v.Criteria.Budget && v.Criteria.Authority && v.Score >= 60
	return v
}

// emailVerdict scores from the engagement ladder alone.
func emailVerdict(email models.Email) verdict {
	v := verdict{
		Confidence:     0.3,
		Reason:         "Rule-based verdict from email engagement.",
		Recommendation: "Follow up by phone to qualify properly.",
	}
	switch {
	case email.EmailStatus.AtLeast(models.EmailReplied):
		v.Score = 70
		v.Criteria.Need = true
	case email.EmailStatus.AtLeast(models.EmailClicked):
		v.Score = 45
	case email.EmailStatus.AtLeast(models.EmailOpened):
		v.Score = 30
	default:
		v.Score = 15
	}
	if email.EmailType == models.EmailInbound {
		v.Score = clamp(v.Score+15, 1, 100)
		v.Criteria.Need = true
	}
	v.Qualified = v.Score >= 60
	return v
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
