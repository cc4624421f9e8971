package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/neighborly-api/internal/domain/contentfilter"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
)

const descriptionMaxLen = 1000

// Service handles moderation business logic
type Service struct {
	repo    Repository
	lookup  ContentLookup
	guard   *user.Guard
	limiter ratelimit.Enforcer
	filters contentfilter.Provider
	events  events.Publisher
	now     func() time.Time
}

// NewService creates moderation service
func NewService(
	repo Repository,
	lookup ContentLookup,
	guard *user.Guard,
	limiter ratelimit.Enforcer,
	filters contentfilter.Provider,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:    repo,
		lookup:  lookup,
		guard:   guard,
		limiter: limiter,
		filters: filters,
		events:  publisher,
		now:     time.Now,
	}
}

// IsBlocked reports a block relation in either direction. Other domains use it
// to refuse interactions between blocked pairs.
func (s *Service) IsBlocked(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.IsBlocked(ctx, a, b)
}

// BlockUser creates the relation caller -> target. Blocking twice is not an error.
func (s *Service) BlockUser(ctx context.Context, req *BlockUserRequest) (*BlockUserResult, error) {
	caller, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID == req.UserID {
		return nil, ErrCannotBlockSelf
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleBlockUser, caller.ID, s.guard.IsNewAccount(caller)); err != nil {
		return nil, err
	}
	if _, err := s.guard.LoadUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	block := &UserBlock{
		ID:        BlockID(caller.ID, req.UserID),
		BlockerID: caller.ID,
		BlockedID: req.UserID,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.repo.CreateBlock(ctx, block)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if created {
		logger.LogInfo(ctx, "User blocked", "blocker_id", caller.ID.String(), "blocked_id", req.UserID.String())
		s.events.Publish(ctx, events.SubjectUserBlocked, caller.ID, nil, map[string]string{
			"blockedId": req.UserID.String(),
		})
	}

	return &BlockUserResult{OK: true, BlockID: block.ID, AlreadyBlocked: !created}, nil
}

// UnblockUser removes the relation caller -> target. Unblocking twice is not an error.
func (s *Service) UnblockUser(ctx context.Context, req *BlockUserRequest) (*UnblockUserResult, error) {
	caller, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID == req.UserID {
		return nil, ErrCannotBlockSelf
	}
	if err := s.limiter.Enforce(ctx, ratelimit.RuleUnblockUser, caller.ID, s.guard.IsNewAccount(caller)); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteBlock(ctx, caller.ID, req.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &UnblockUserResult{OK: true, WasBlocked: deleted}, nil
}

// reportTarget is the validated single target of a report
type reportTarget struct {
	userID         uuid.NullUUID
	postID         uuid.NullUUID
	messageID      uuid.NullUUID
	conversationID uuid.NullUUID
}

func resolveTarget(req *ReportContentRequest) (*reportTarget, error) {
	set := 0
	t := &reportTarget{}
	if req.UserID != nil && *req.UserID != uuid.Nil {
		set++
		t.userID = uuid.NullUUID{UUID: *req.UserID, Valid: true}
	}
	if req.PostID != nil && *req.PostID != uuid.Nil {
		set++
		t.postID = uuid.NullUUID{UUID: *req.PostID, Valid: true}
	}
	if req.MessageID != nil && *req.MessageID != uuid.Nil {
		set++
		t.messageID = uuid.NullUUID{UUID: *req.MessageID, Valid: true}
	}
	if set != 1 {
		return nil, ErrReportTargetRequired
	}

	hasConversation := req.ConversationID != nil && *req.ConversationID != uuid.Nil
	switch {
	case t.messageID.Valid && !hasConversation:
		return nil, ErrConversationRequired
	case !t.messageID.Valid && hasConversation:
		return nil, ErrReportTargetRequired
	case hasConversation:
		t.conversationID = uuid.NullUUID{UUID: *req.ConversationID, Valid: true}
	}
	return t, nil
}

// ReportContent files an immutable report with a snapshot of the target
func (s *Service) ReportContent(ctx context.Context, req *ReportContentRequest) (*ReportContentResult, error) {
	reporter, err := s.guard.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if !validReasons[req.Reason] {
		return nil, ErrInvalidReportReason
	}
	target, err := resolveTarget(req)
	if err != nil {
		return nil, err
	}
	if target.userID.Valid && target.userID.UUID == reporter.ID {
		return nil, ErrCannotReportSelf
	}

	if err := s.limiter.Enforce(ctx, ratelimit.RuleReportContent, reporter.ID, s.guard.IsNewAccount(reporter)); err != nil {
		return nil, err
	}

	filter, err := s.filters.Filter(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	description, err := filter.CheckStrict("description", req.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	snapshot, reportedUserID, err := s.captureSnapshot(ctx, reporter.ID, target, now)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.CountReportsSince(ctx, reporter.ID, now.Add(-FlaggedReporterWindow))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	report := &Report{
		ID:                   uuid.New(),
		ReporterID:           reporter.ID,
		Reason:               req.Reason,
		TargetUserID:         target.userID,
		TargetPostID:         target.postID,
		TargetMessageID:      target.messageID,
		TargetConversationID: target.conversationID,
		ReportedUserID:       reportedUserID,
		Description:          description,
		ContextSnapshot:      snapshot,
		IsFlaggedReporter:    recent >= FlaggedReporterThreshold,
		Status:               ReportStatusPending,
		CreatedAt:            now,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, apperr.Internal(err)
	}

	if report.IsFlaggedReporter {
		logger.LogWarn(ctx, "Report from flagged reporter",
			"reporter_id", reporter.ID.String(), "recent_reports", recent)
	}
	s.events.Publish(ctx, events.SubjectReportCreated, reporter.ID, nil, map[string]string{
		"reportId": report.ID.String(),
		"reason":   string(report.Reason),
	})

	return &ReportContentResult{OK: true, ReportID: report.ID}, nil
}

// captureSnapshot copies the target's current state. Missing content yields a
// nil snapshot rather than an error.
func (s *Service) captureSnapshot(ctx context.Context, reporterID uuid.UUID, t *reportTarget, now time.Time) (*ContextSnapshot, uuid.NullUUID, error) {
	switch {
	case t.userID.Valid:
		u, err := s.lookup.GetUser(ctx, t.userID.UUID)
		if err != nil {
			return nil, uuid.NullUUID{}, apperr.Internal(err)
		}
		if u == nil {
			return nil, t.userID, nil
		}
		return &ContextSnapshot{
			Kind:             SnapshotUser,
			AuthorID:         u.ID,
			AuthorName:       u.DisplayName,
			AuthorRole:       u.Role,
			ContentCreatedAt: u.CreatedAt,
			CapturedAt:       now,
		}, t.userID, nil

	case t.postID.Valid:
		p, err := s.lookup.GetPost(ctx, t.postID.UUID)
		if err != nil {
			return nil, uuid.NullUUID{}, apperr.Internal(err)
		}
		if p == nil {
			return nil, uuid.NullUUID{}, nil
		}
		return &ContextSnapshot{
			Kind:             SnapshotPost,
			AuthorID:         p.AuthorID,
			AuthorName:       p.AuthorName,
			AuthorRole:       p.AuthorRole,
			Title:            p.Title,
			Text:             truncate(p.Description, snapshotTextLimit),
			ServiceType:      p.ServiceType,
			ContentCreatedAt: p.CreatedAt,
			CapturedAt:       now,
		}, uuid.NullUUID{UUID: p.AuthorID, Valid: true}, nil

	default:
		participants, err := s.lookup.GetConversationParticipants(ctx, t.conversationID.UUID)
		if err != nil {
			return nil, uuid.NullUUID{}, apperr.Internal(err)
		}
		if participants == nil {
			return nil, uuid.NullUUID{}, nil
		}
		if !containsID(participants, reporterID) {
			return nil, uuid.NullUUID{}, ErrNotConversationParticipant
		}

		m, err := s.lookup.GetMessage(ctx, t.conversationID.UUID, t.messageID.UUID)
		if err != nil {
			return nil, uuid.NullUUID{}, apperr.Internal(fmt.Errorf("snapshot message: %w", err))
		}
		if m == nil {
			return nil, uuid.NullUUID{}, nil
		}
		return &ContextSnapshot{
			Kind:             SnapshotMessage,
			AuthorID:         m.SenderID.UUID,
			AuthorName:       m.SenderName,
			AuthorRole:       m.SenderRole,
			Text:             truncate(m.Text, snapshotTextLimit),
			ContentCreatedAt: m.CreatedAt,
			CapturedAt:       now,
		}, m.SenderID, nil
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
