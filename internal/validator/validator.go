// Package validator checks contact submissions before any channel is attempted.
package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	appErr "github.com/samims/contactrelay/internal/errors"
	"github.com/samims/contactrelay/internal/model"
)

// Resolver is the DNS subset used for the deliverability check. *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Validator runs the field rules, the security pass and the email deliverability check.
type Validator interface {
	Validate(ctx context.Context, s model.Submission) error
}

type submissionValidator struct {
	fields   *validator.Validate
	resolver Resolver
	logger   *slog.Logger
}

var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*/?\s*(script|iframe|object|embed|style|svg|link|meta)\b`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	regexp.MustCompile(`(?i)expression\s*\(`),
}

// phone numbers: digits, spaces and the usual punctuation
var phonePattern = regexp.MustCompile(`^\+?[0-9 ().\-/]{5,40}$`)

// New builds a Validator. A nil resolver disables the MX lookup.
func New(resolver Resolver, logger *slog.Logger) Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	strict := bluemonday.StrictPolicy()
	// a field that sanitizes to nothing was never really filled in
	_ = v.RegisterValidation("hascontent", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(strict.Sanitize(fl.Field().String())) != ""
	})
	return &submissionValidator{
		fields:   v,
		resolver: resolver,
		logger:   logger.With("layer", "validator", "component", "submissionValidator"),
	}
}

// Validate collects every problem and returns them as one *errors.ValidationError.
func (v *submissionValidator) Validate(ctx context.Context, s model.Submission) error {
	var problems []string
	emailFlagged := false

	if err := v.fields.StructCtx(ctx, s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return appErr.NewInternal("field validation: %v", err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describe(fe))
			if fe.Field() == "email" {
				emailFlagged = true
			}
		}
	}

	for _, f := range s.Fields() {
		if reason := unsafeContent(f); reason != "" {
			problems = append(problems, fmt.Sprintf("%s %s", f.Name, reason))
		}
	}

	if s.Phone != "" && !phonePattern.MatchString(s.Phone) {
		problems = append(problems, "phone must be a valid phone number")
	}

	if s.Email != "" && !emailFlagged {
		if reason := v.checkEmail(ctx, s.Email); reason != "" {
			problems = append(problems, reason)
		}
	}

	if len(problems) > 0 {
		v.logger.Info("Submission rejected", slog.Int("problems", len(problems)))
	}
	return appErr.NewValidation(dedupe(problems))
}

func (v *submissionValidator) checkEmail(ctx context.Context, email string) string {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) || addr.Name != "" {
		return "email address format is invalid"
	}
	at := strings.LastIndex(addr.Address, "@")
	domain := addr.Address[at+1:]
	if !strings.Contains(domain, ".") {
		return "email domain is invalid"
	}
	if v.resolver == nil {
		return ""
	}

	mx, err := v.resolver.LookupMX(ctx, domain)
	if err == nil && len(mx) > 0 {
		return ""
	}
	if err != nil && !isNotFound(err) {
		// DNS trouble is not the submitter's fault
		v.logger.Warn("MX lookup failed, accepting address", slog.String("domain", domain), slog.Any("error", err))
		return ""
	}
	// no MX: mail falls back to the A/AAAA record
	if hosts, err := v.resolver.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return ""
	} else if err != nil && !isNotFound(err) {
		v.logger.Warn("Host lookup failed, accepting address", slog.String("domain", domain), slog.Any("error", err))
		return ""
	}
	return "email domain cannot receive mail"
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

func unsafeContent(f model.Field) string {
	for _, r := range f.Value {
		if unicode.IsControl(r) && !(f.Name == "message" && (r == '\n' || r == '\r' || r == '\t')) {
			return "contains control characters"
		}
	}
	for _, p := range unsafePatterns {
		if p.MatchString(f.Value) {
			return "contains disallowed content"
		}
	}
	return ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "hascontent":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, p := range in {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
