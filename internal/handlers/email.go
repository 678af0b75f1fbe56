package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xelth-com/shopreply/internal/mailer"
	"github.com/xelth-com/shopreply/internal/middleware"
	"github.com/xelth-com/shopreply/internal/models"
	"github.com/xelth-com/shopreply/internal/services/reply"
)

const (
	maxRequestBytes = 1 << 20
	defaultSubject  = "Re: Your message"
	auditTimeout    = 5 * time.Second
)

type processEmailRequest struct {
	EmailBody   string `json:"email_body"`
	OrderID     string `json:"order_id,omitempty"`
	SenderEmail string `json:"sender_email,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Send        bool   `json:"send,omitempty"`
}

type processEmailResponse struct {
	*models.ComposedReply
	Sent bool `json:"sent,omitempty"`
}

// processEmail drafts a reply for the posted customer email
func (r *Router) processEmail(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	requestID := middleware.RequestID(req.Context())

	var body processEmailRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxRequestBytes)).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	email := models.InboundEmail{
		Body:        body.EmailBody,
		SenderEmail: strings.TrimSpace(body.SenderEmail),
		OrderID:     strings.TrimSpace(body.OrderID),
	}

	ctx := req.Context()
	if r.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.requestTimeout)
		defer cancel()
	}

	result, err := r.pipeline.Process(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrInput) {
			r.recordAudit(req.Context(), models.EmailAudit{
				RequestID: requestID,
				OrderID:   email.OrderID,
				Outcome:   models.AuditOutcomeInvalid,
				LatencyMs: time.Since(start).Milliseconds(),
			})
			respondError(w, http.StatusBadRequest, "email_body is required")
			return
		}

		log.Printf("❌ [%s] Drafting failed: %v", requestID, err)
		r.recordAudit(req.Context(), models.EmailAudit{
			RequestID:    requestID,
			OrderID:      email.OrderID,
			Outcome:      models.AuditOutcomeFallback,
			ErrorMessage: err.Error(),
			LatencyMs:    time.Since(start).Milliseconds(),
		})
		respondError(w, http.StatusInternalServerError, reply.FallbackReply)
		return
	}

	resp := processEmailResponse{ComposedReply: result}
	if body.Send {
		resp.Sent = r.sendReply(ctx, requestID, email.SenderEmail, body.Subject, result.Body)
	}

	meta := map[string]interface{}{}
	if body.Send {
		meta["sent"] = resp.Sent
	}
	r.recordAudit(req.Context(), models.EmailAudit{
		RequestID:   requestID,
		Category:    string(result.Category),
		OrderID:     email.OrderID,
		ContextUsed: result.ContextUsed != nil,
		Outcome:     models.AuditOutcomeOK,
		LatencyMs:   time.Since(start).Milliseconds(),
		Meta:        meta,
	})

	respondJSON(w, http.StatusOK, resp)
}

// sendReply mails the reply when a mailer is configured; failures are logged only
func (r *Router) sendReply(ctx context.Context, requestID, to, subject, text string) bool {
	if r.mailer == nil {
		log.Printf("⚠️ [%s] Send requested but SMTP is not configured", requestID)
		return false
	}
	if to == "" {
		log.Printf("⚠️ [%s] Send requested without sender_email", requestID)
		return false
	}
	if subject == "" {
		subject = defaultSubject
	}

	err := r.mailer.Send(ctx, mailer.Message{
		To:      to,
		Subject: subject,
		Body:    text,
	})
	if err != nil {
		log.Printf("❌ [%s] Failed to send reply: %v", requestID, err)
		return false
	}
	log.Printf("📧 [%s] Reply sent", requestID)
	return true
}

func (r *Router) recordAudit(ctx context.Context, entry models.EmailAudit) {
	if r.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	if err := r.audit.Record(ctx, entry); err != nil {
		log.Printf("⚠️ Audit: %v", err)
	}
}

// listAudit returns the newest audit entries
func (r *Router) listAudit(w http.ResponseWriter, req *http.Request) {
	if r.audit == nil {
		respondError(w, http.StatusNotFound, "Audit trail is not enabled")
		return
	}

	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	entries, err := r.audit.Recent(req.Context(), limit)
	if err != nil {
		log.Printf("❌ Audit: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch audit entries")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
