package memory

import (
	"context"
	"sync"

	"meetlite/internal/core/domain"
	"meetlite/internal/core/ports"
)

// MemoryMeetingRepository keeps the passcode registry in process memory.
// Entries live until the process exits, matching the admission contract.
type MemoryMeetingRepository struct {
	meetings map[domain.Passcode]*domain.Meeting
	mu       sync.RWMutex
}

func NewMemoryMeetingRepository() *MemoryMeetingRepository {
	return &MemoryMeetingRepository{
		meetings: make(map[domain.Passcode]*domain.Meeting),
	}
}

var _ ports.MeetingRepository = (*MemoryMeetingRepository)(nil)

func (r *MemoryMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meetings[meeting.Passcode]; exists {
		return domain.ErrPasscodeTaken
	}

	r.meetings[meeting.Passcode] = meeting
	return nil
}

func (r *MemoryMeetingRepository) GetByPasscode(ctx context.Context, passcode domain.Passcode) (*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, exists := r.meetings[passcode]
	if !exists {
		return nil, domain.ErrPasscodeNotFound
	}

	return meeting, nil
}

// Len reports the number of registered passcodes.
func (r *MemoryMeetingRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.meetings)
}
