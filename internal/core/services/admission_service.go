package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"meetlite/internal/core/domain"
	"meetlite/internal/core/ports"

	"go.uber.org/zap"
)

// passcodeAttempts bounds regeneration when a freshly drawn passcode is
// already registered. With a 6-digit space a handful of retries is plenty.
const passcodeAttempts = 10

type admissionService struct {
	meetings ports.MeetingRepository
	logger   *zap.SugaredLogger
}

func NewAdmissionService(meetings ports.MeetingRepository, logger *zap.SugaredLogger) ports.AdmissionService {
	return &admissionService{
		meetings: meetings,
		logger:   logger,
	}
}

func (s *admissionService) CreateMeeting(ctx context.Context, identity domain.Identity) (*domain.Meeting, error) {
	for attempt := 0; attempt < passcodeAttempts; attempt++ {
		passcode, err := generatePasscode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate passcode: %w", err)
		}

		meeting := &domain.Meeting{
			Room:      domain.NewRoomID(),
			Passcode:  passcode,
			CreatedBy: identity,
			CreatedAt: time.Now(),
		}

		err = s.meetings.Create(ctx, meeting)
		if err == domain.ErrPasscodeTaken {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to register meeting: %w", err)
		}

		s.logger.Infow("meeting created",
			"room", meeting.Room,
			"created_by", identity,
		)
		return meeting, nil
	}

	return nil, fmt.Errorf("failed to find a free passcode after %d attempts", passcodeAttempts)
}

func (s *admissionService) JoinMeeting(ctx context.Context, passcode domain.Passcode) (*domain.Meeting, error) {
	meeting, err := s.meetings.GetByPasscode(ctx, passcode)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

// generatePasscode draws a uniformly random 6-digit code.
func generatePasscode() (domain.Passcode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return domain.Passcode(fmt.Sprintf("%06d", n.Int64()+100000)), nil
}
