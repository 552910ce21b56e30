package qrpass

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/chronotrack/attendance-backend-go/internal/domain/attendance"
	"github.com/chronotrack/attendance-backend-go/internal/domain/location"
	"github.com/chronotrack/attendance-backend-go/internal/domain/qrpass"
)

// Service issues and redeems single-use QR attendance passes. A pass is
// bound to a registered location, so a kiosk redemption carries the
// kiosk's coordinates into the geofence check instead of trusting the
// phone.
type Service struct {
	passes    qrpass.Repository
	locations location.Store
	engine    attendance.Service
	ttl       time.Duration
	clock     func() time.Time
}

func NewQRPassService(passes qrpass.Repository, locations location.Store, engine attendance.Service, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		passes:    passes,
		locations: locations,
		engine:    engine,
		ttl:       ttl,
		clock:     time.Now,
	}
}

// Issue creates a pass for a location valid for the given org-local day.
func (s *Service) Issue(ctx context.Context, orgID, locationID, date string) (qrpass.Pass, error) {
	if _, err := s.locations.Get(ctx, locationID, orgID); err != nil {
		return qrpass.Pass{}, err
	}

	code, err := randomCode()
	if err != nil {
		return qrpass.Pass{}, fmt.Errorf("failed to generate pass code: %w", err)
	}

	pass, err := s.passes.Create(ctx, qrpass.Pass{
		OrgID:      orgID,
		LocationID: locationID,
		Code:       code,
		Date:       date,
		ExpiresAt:  s.clock().Add(s.ttl),
	})
	if err != nil {
		return qrpass.Pass{}, fmt.Errorf("failed to create pass: %w", err)
	}
	return pass, nil
}

// Image renders the pass code as a PNG suitable for a kiosk screen.
func (s *Service) Image(ctx context.Context, id, orgID string) ([]byte, error) {
	pass, err := s.passes.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(pass.Code, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}
	return png, nil
}

// Redeem claims the pass for an employee and runs the corresponding
// attendance action through the engine with the pass's location. The
// MarkUsed claim happens before the engine call so two phones scanning
// the same pass race at the store, not here; when the engine rejects
// the action the claim is released so the kiosk can retry with the
// same pass.
func (s *Service) Redeem(ctx context.Context, code, employeeID, orgID string, action attendance.Action) (attendance.Record, error) {
	pass, err := s.passes.GetByCode(ctx, code)
	if err != nil {
		return attendance.Record{}, err
	}
	if pass.OrgID != orgID {
		return attendance.Record{}, qrpass.ErrPassNotFound
	}
	if s.clock().After(pass.ExpiresAt) {
		return attendance.Record{}, qrpass.ErrPassExpired
	}
	if pass.UsedAt != nil {
		return attendance.Record{}, qrpass.ErrPassUsed
	}

	loc, err := s.locations.Get(ctx, pass.LocationID, orgID)
	if err != nil {
		return attendance.Record{}, err
	}

	if err := s.passes.MarkUsed(ctx, pass.ID, employeeID); err != nil {
		return attendance.Record{}, err
	}

	req := attendance.ActionRequest{
		EmployeeID: employeeID,
		OrgID:      orgID,
		Action:     action,
		LocationID: &pass.LocationID,
		Latitude:   &loc.Latitude,
		Longitude:  &loc.Longitude,
	}

	rec, err := s.dispatch(ctx, action, req)
	if err != nil {
		if rerr := s.passes.Release(ctx, pass.ID); rerr != nil {
			slog.Warn("Failed to release QR pass after rejected action",
				"pass_id", pass.ID, "error", rerr)
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

func (s *Service) dispatch(ctx context.Context, action attendance.Action, req attendance.ActionRequest) (attendance.Record, error) {
	switch action {
	case attendance.ActionCheckIn:
		return s.engine.CheckIn(ctx, req)
	case attendance.ActionCheckOut:
		return s.engine.CheckOut(ctx, req)
	case attendance.ActionBreakStart:
		return s.engine.StartBreak(ctx, req)
	case attendance.ActionBreakEnd:
		return s.engine.EndBreak(ctx, req)
	default:
		return attendance.Record{}, errors.New("unsupported pass action")
	}
}

func randomCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
