// Package draft generates executive-register email text from a short user
// request, optionally refining the request itself into a richer prompt first.
package draft

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kestrelworks/pulseboard/internal/analytics"
)

const systemInstruction = "You are an elite corporate communication AI. You despise fluff. You prioritize clarity, active voice, and result-oriented communication. You never hallucinate facts."

// Writer produces polished email drafts.
type Writer struct {
	client analytics.Completer
	model  string
	log    *zap.Logger
}

func NewWriter(client analytics.Completer, model string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{client: client, model: model, log: log}
}

// Draft writes an email for the given request. When enhance is set, the
// request is first folded into a refinement instruction so the generator sees
// a higher quality brief. docContext, when non-empty, rides along as
// supporting material.
func (w *Writer) Draft(ctx context.Context, request string, enhance bool, docContext string) (string, error) {
	instruction := request
	if enhance {
		instruction = fmt.Sprintf("Refine this request into a detailed prompt for an AI writer. The goal is to produce a professional, high-stakes email. Original request: %q", request)
	}

	contextBlock := ""
	if docContext != "" {
		contextBlock = "ADDITIONAL CONTEXT: " + docContext + "\n"
	}

	prompt := fmt.Sprintf(`ROLE: You are a World-Class Executive Communications Director. You write emails that get results. Your tone is confident, clear, and empathetic.

TASK: Write an email based on the following request:
%q
%s
STRICT OUTPUT RULES:
1. Structure:
   - Subject Line: Compelling and concise (max 7 words).
   - Opening: Warm, professional, and context-aware.
   - Body: Use specific details. If listing items, use BULLET POINTS for readability.
   - CTA: A clear, direct Call to Action (e.g., "Let's discuss on Tuesday at 2 PM").
   - Sign-off: Professional closing.

2. Anti-Hallucination:
   - Do NOT invent names, dates, or financial figures if they are not in the prompt.
   - Use bracketed placeholders like [Name], [Date], [Company Name] if you are missing specific details.
   - Double-check the content for logical consistency.

3. Psychology:
   - If the user asks for money/sales: Use persuasive, benefit-driven language.
   - If the user is apologizing: Be sincere, non-defensive, and solution-oriented.
   - If the user is following up: Be polite but persistent, adding value.

Output ONLY the email content. Start with "Subject:".`, instruction, contextBlock)

	w.log.Debug("drafting email", zap.Bool("enhance", enhance), zap.Int("prompt_chars", len(prompt)))
	out, err := w.client.Complete(ctx, w.model, systemInstruction, prompt)
	if err != nil {
		return "", fmt.Errorf("draft email: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Enhance rewrites a raw request into a structured, detailed prompt. On model
// failure the raw request comes back unchanged, so callers can always proceed.
func (w *Writer) Enhance(ctx context.Context, rawPrompt string) string {
	prompt := fmt.Sprintf(`You are an expert Prompt Engineer. Rewrite the following user draft request into a structured, highly detailed prompt that will ensure a perfect AI generation.

User Input: %q

Technique to use:
1. Assign a Persona (e.g., "Act as a Project Manager").
2. Define the Goal clearly.
3. Add Tone constraints (e.g., "Professional but urgent").
4. Specify the Format.

Return ONLY the enhanced prompt text.`, rawPrompt)

	out, err := w.client.Complete(ctx, w.model, "", prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			w.log.Warn("prompt enhancement failed, keeping original", zap.Error(err))
		}
		return rawPrompt
	}
	return strings.TrimSpace(out)
}
