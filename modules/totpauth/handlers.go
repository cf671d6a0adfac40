package totpauth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/totpauth/handler"
	"github.com/dmitrymomot/totpauth/pkg/clientip"
	"github.com/dmitrymomot/totpauth/pkg/email"
	"github.com/dmitrymomot/totpauth/pkg/email/templates"
	"github.com/dmitrymomot/totpauth/pkg/logger"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

// GenerateQRRequest asks for a fresh enrollment. Label is the account name
// shown in authenticator apps; ClientID is used when Label is empty.
type GenerateQRRequest struct {
	Label    string `json:"label"`
	ClientID string `json:"client_id"`
}

// GenerateQRResponse is shown to the client once. Nothing is persisted.
type GenerateQRResponse struct {
	Secret      string `json:"secret"`
	URI         string `json:"uri"`
	QRCode      string `json:"qr_code"`
	RecoveryKey string `json:"recovery_key"`
}

type SetupRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	Code        string `json:"code"`
	RecoveryKey string `json:"recovery_key"`
}

type VerifyTOTPRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

type VerifyClientRequest struct {
	ClientID string `json:"client_id"`
	Code     string `json:"code"`
}

type DeactivateRequest struct {
	ClientID string `json:"client_id"`
	Code     string `json:"code"`
}

// RecoverRequest deactivates with the recovery key instead of a code.
type RecoverRequest struct {
	ClientID    string `json:"client_id"`
	RecoveryKey string `json:"recovery_key"`
}

type StatusRequest struct {
	ClientID string `path:"clientID"`
}

type StatusResponse struct {
	ClientID  string     `json:"client_id"`
	Active    bool       `json:"active"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// SendEmailRequest renders TemplateName with Variables and sends it.
type SendEmailRequest struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	Subject      string            `json:"subject"`
	TemplateName string            `json:"template_name"`
	Variables    map[string]string `json:"variables"`
	Tag          string            `json:"tag"`
}

// MessageResponse acknowledges operations without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}

const (
	opGenerateQR   = "generate_qr"
	opSetup        = "setup"
	opVerifyTOTP   = "verify_totp"
	opVerifyClient = "verify_client"
	opDeactivate   = "deactivate"
	opRecover      = "recover"
	opStatus       = "status"
	opSendEmail    = "send_email"
)

func (m *Module) generateQR(ctx handler.Context, req GenerateQRRequest) handler.Response {
	label := req.Label
	if label == "" {
		label = req.ClientID
	}

	e, err := m.svc.Issue(ctx, label)
	if err != nil {
		return m.fail(ctx, opGenerateQR, req.ClientID, err)
	}
	m.succeed(ctx, opGenerateQR, req.ClientID)

	return handler.JSON(GenerateQRResponse{
		Secret:      e.Secret,
		URI:         e.URI,
		QRCode:      e.QRCode,
		RecoveryKey: e.RecoveryKey,
	})
}

func (m *Module) setup(ctx handler.Context, req SetupRequest) handler.Response {
	err := m.svc.ConfirmSetup(ctx, enrollment.ConfirmParams{
		ClientID:    req.ClientID,
		Secret:      req.Secret,
		Code:        req.Code,
		RecoveryKey: req.RecoveryKey,
	})
	if err != nil {
		return m.fail(ctx, opSetup, req.ClientID, err)
	}
	m.succeed(ctx, opSetup, req.ClientID)
	return handler.JSON(MessageResponse{Message: "setup completed successfully"})
}

func (m *Module) verifyTOTP(ctx handler.Context, req VerifyTOTPRequest) handler.Response {
	if err := m.svc.VerifyOnly(ctx, req.Secret, req.Code); err != nil {
		return m.fail(ctx, opVerifyTOTP, "", err)
	}
	m.succeed(ctx, opVerifyTOTP, "")
	return handler.JSON(MessageResponse{Message: "verification successful"})
}

func (m *Module) verifyClient(ctx handler.Context, req VerifyClientRequest) handler.Response {
	if err := m.svc.VerifyStored(ctx, req.ClientID, req.Code); err != nil {
		return m.fail(ctx, opVerifyClient, req.ClientID, err)
	}
	m.succeed(ctx, opVerifyClient, req.ClientID)
	return handler.JSON(MessageResponse{Message: "verification successful"})
}

func (m *Module) deactivate(ctx handler.Context, req DeactivateRequest) handler.Response {
	if err := m.svc.Deactivate(ctx, req.ClientID, req.Code); err != nil {
		return m.fail(ctx, opDeactivate, req.ClientID, err)
	}
	m.succeed(ctx, opDeactivate, req.ClientID)
	return handler.JSON(MessageResponse{Message: "two-factor authentication deactivated"})
}

func (m *Module) recoverAccess(ctx handler.Context, req RecoverRequest) handler.Response {
	if err := m.svc.DeactivateWithRecovery(ctx, req.ClientID, req.RecoveryKey); err != nil {
		return m.fail(ctx, opRecover, req.ClientID, err)
	}
	m.succeed(ctx, opRecover, req.ClientID)
	return handler.JSON(MessageResponse{Message: "two-factor authentication deactivated"})
}

// status answers an unknown client like a known inactive one.
func (m *Module) status(ctx handler.Context, req StatusRequest) handler.Response {
	st, err := m.svc.Status(ctx, req.ClientID)
	switch {
	case enrollment.KindOf(err) == enrollment.KindClientNotFound:
		m.log.InfoContext(ctx, "totp status of unknown client",
			append(m.attrs(ctx, opStatus, req.ClientID), logger.Kind(string(enrollment.KindClientNotFound)))...,
		)
		return handler.JSON(StatusResponse{ClientID: req.ClientID})
	case err != nil:
		return m.fail(ctx, opStatus, req.ClientID, err)
	}

	resp := StatusResponse{ClientID: st.ClientID, Active: st.Active()}
	if resp.Active {
		resp.UpdatedAt = &st.UpdatedAt
	}
	return handler.JSON(resp)
}

func (m *Module) sendEmail(ctx handler.Context, req SendEmailRequest) handler.Response {
	body, err := templates.Render(ctx, templates.File(m.templatesDir, req.TemplateName, req.Variables))
	if err != nil {
		m.log.WarnContext(ctx, "email template rendering failed",
			append(m.attrs(ctx, opSendEmail, ""), slog.String("template", req.TemplateName), logger.Error(err))...,
		)
		return handler.JSONError(renderHTTPError(err))
	}

	err = m.sender.SendEmail(ctx, email.SendEmailParams{
		From:     req.From,
		SendTo:   req.To,
		Subject:  req.Subject,
		BodyHTML: body,
		Tag:      req.Tag,
	})
	if err != nil {
		herr := sendHTTPError(err)
		m.log.Log(ctx, levelFor(herr.Code), "email delivery failed",
			append(m.attrs(ctx, opSendEmail, ""), slog.String("template", req.TemplateName), logger.Error(err))...,
		)
		return handler.JSONError(herr)
	}

	m.succeed(ctx, opSendEmail, "")
	return handler.JSON(MessageResponse{Message: "email sent successfully"})
}

// fail logs the internal kind and returns the external error.
func (m *Module) fail(ctx context.Context, op, clientID string, err error) handler.Response {
	herr := toHTTPError(err)
	attrs := append(m.attrs(ctx, op, clientID), logger.Kind(string(enrollment.KindOf(err))))
	if herr.Code >= http.StatusInternalServerError {
		attrs = append(attrs, logger.Error(err))
	}
	m.log.Log(ctx, levelFor(herr.Code), "totp operation failed", attrs...)
	return handler.JSONError(herr)
}

func (m *Module) succeed(ctx context.Context, op, clientID string) {
	m.log.InfoContext(ctx, "totp operation succeeded", m.attrs(ctx, op, clientID)...)
}

func (m *Module) attrs(ctx context.Context, op, clientID string) []any {
	return []any{
		logger.Operation(op),
		logger.ClientID(clientID),
		logger.Caller(CallerFromContext(ctx)),
		logger.ClientIP(clientip.FromContext(ctx)),
	}
}

func levelFor(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}
