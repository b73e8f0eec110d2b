package domain

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/droplabz/backend/internal/common"
	"github.com/droplabz/backend/internal/domain/duplicate"
	"github.com/droplabz/backend/internal/domain/eligibility"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
	"github.com/droplabz/backend/internal/repository"
	"github.com/droplabz/backend/pkg/enum"
	"github.com/droplabz/backend/pkg/errorx"
	"github.com/droplabz/backend/pkg/solanautil"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const maxIneligibilityReasonLength = 500

type EntryDomain interface {
	CreateEntry(context.Context, *model.CreateEntryRequest) (*model.CreateEntryResponse, error)
	VerifyEntry(context.Context, *model.VerifyEntryRequest) (*model.VerifyEntryResponse, error)
	GetEntries(context.Context, *model.GetEntriesRequest) (*model.GetEntriesResponse, error)
	MarkIneligible(context.Context, *model.MarkIneligibleRequest) (*model.MarkIneligibleResponse, error)
	SetEligibility(context.Context, *model.SetEligibilityRequest) (*model.SetEligibilityResponse, error)
	GetDuplicates(context.Context, *model.GetDuplicatesRequest) (*model.GetDuplicatesResponse, error)
}

type entryDomain struct {
	entryRepo       repository.EntryRepository
	eventRepo       repository.EventRepository
	requirementRepo repository.RequirementRepository
	communityRepo   repository.CommunityRepository
	winnerRepo      repository.WinnerRepository
	auditLogRepo    repository.AuditLogRepository
	verifier        *eligibility.Verifier
	detector        *duplicate.Detector
	allocator       *winnerAllocator
}

func NewEntryDomain(
	entryRepo repository.EntryRepository,
	eventRepo repository.EventRepository,
	requirementRepo repository.RequirementRepository,
	communityRepo repository.CommunityRepository,
	winnerRepo repository.WinnerRepository,
	auditLogRepo repository.AuditLogRepository,
	verifier *eligibility.Verifier,
	detector *duplicate.Detector,
	notifier WinnerNotifier,
) *entryDomain {
	return &entryDomain{
		entryRepo:       entryRepo,
		eventRepo:       eventRepo,
		requirementRepo: requirementRepo,
		communityRepo:   communityRepo,
		winnerRepo:      winnerRepo,
		auditLogRepo:    auditLogRepo,
		verifier:        verifier,
		detector:        detector,
		allocator: newWinnerAllocator(
			eventRepo, winnerRepo, communityRepo, notifier.Announcer, notifier.Publisher),
	}
}

func (d *entryDomain) CreateEntry(
	ctx context.Context, req *model.CreateEntryRequest,
) (*model.CreateEntryResponse, error) {
	if !solanautil.IsValidAddress(req.WalletAddress) {
		return nil, errorx.New(errorx.InvalidWallet, "Invalid Solana wallet address")
	}

	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	if !isEventOpen(event, time.Now()) {
		return nil, errorx.New(errorx.EventInactive, "Event is not accepting entries")
	}

	_, err = d.entryRepo.GetByWallet(ctx, event.ID, req.WalletAddress)
	if err == nil {
		return nil, errorx.New(errorx.DuplicateEntry, "This wallet has already entered the event")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get entry by wallet: %v", err)
		return nil, errorx.Unknown
	}

	entry := &entity.Entry{
		Base:          entity.Base{ID: uuid.NewString()},
		EventID:       event.ID,
		WalletAddress: req.WalletAddress,
		DiscordUserID: req.DiscordUserID,
		Status:        entity.EntryStatusPending,
	}

	if err := d.entryRepo.Create(ctx, entry); err != nil {
		if _, getErr := d.entryRepo.GetByWallet(ctx, event.ID, req.WalletAddress); getErr == nil {
			return nil, errorx.New(errorx.DuplicateEntry, "This wallet has already entered the event")
		}

		xcontext.Logger(ctx).Errorf("Cannot create entry: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.verifyAndAssign(ctx, event, entry)
	if err != nil {
		return nil, err
	}

	return &model.CreateEntryResponse{
		Entry:        convertEntry(entry),
		Valid:        result.valid,
		Winner:       result.winner,
		FCFSAssigned: result.winner != nil,
	}, nil
}

func (d *entryDomain) VerifyEntry(
	ctx context.Context, req *model.VerifyEntryRequest,
) (*model.VerifyEntryResponse, error) {
	entry, err := d.getEntry(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}

	event, err := getEvent(ctx, d.eventRepo, entry.EventID)
	if err != nil {
		return nil, err
	}

	result, err := d.verifyAndAssign(ctx, event, entry)
	if err != nil {
		return nil, err
	}

	return &model.VerifyEntryResponse{
		Entry:        convertEntry(entry),
		Valid:        result.valid,
		Winner:       result.winner,
		FCFSAssigned: result.winner != nil,
	}, nil
}

type verifyResult struct {
	valid  bool
	winner *model.Winner
}

// verifyAndAssign runs the verification of the entry and, for FCFS events,
// assigns a winner spot to the entry once it becomes eligible.
func (d *entryDomain) verifyAndAssign(
	ctx context.Context, event *entity.Event, entry *entity.Entry,
) (*verifyResult, error) {
	requirements, err := d.requirementRepo.GetByEventID(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get requirements: %v", err)
		return nil, errorx.Unknown
	}

	community, err := d.communityRepo.GetByID(ctx, event.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	verification, err := d.verifier.Verify(ctx, community.GuildID, entry, requirements)
	if err != nil {
		common.PromCounters[common.EntryVerificationTotal].
			WithLabelValues(string(entity.EntryStatusPending)).Inc()
		return nil, err
	}

	common.PromCounters[common.EntryVerificationTotal].
		WithLabelValues(string(verification.Status)).Inc()

	result := &verifyResult{valid: verification.Valid}
	if event.SelectionMode != entity.SelectionModeFCFS || !verification.Valid || entry.IsIneligible {
		return result, nil
	}

	// Winners are only assigned while the event accepts entries.
	if !isEventOpen(event, time.Now()) {
		return result, nil
	}

	winner, err := d.allocator.AssignFCFS(ctx, event, *entry)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot assign FCFS winner: %v", err)
		return nil, errorx.Unknown
	}

	if winner != nil {
		w := convertWinner(winner)
		result.winner = &w
	}

	return result, nil
}

func (d *entryDomain) GetEntries(
	ctx context.Context, req *model.GetEntriesRequest,
) (*model.GetEntriesResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	filter := repository.GetEntriesFilter{}
	if req.Status != "" {
		filter.Status, err = enum.ToEnum[entity.EntryStatus](req.Status)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid entry status: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid entry status %s", req.Status)
		}
	}

	entries, err := d.entryRepo.GetByEventID(ctx, event.ID, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Entry{}
	for i := range entries {
		result = append(result, convertEntry(&entries[i]))
	}

	return &model.GetEntriesResponse{Entries: result, Count: len(result)}, nil
}

func (d *entryDomain) MarkIneligible(
	ctx context.Context, req *model.MarkIneligibleRequest,
) (*model.MarkIneligibleResponse, error) {
	if len(req.EntryIDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No entry is selected")
	}

	if err := validateIneligibilityReason(req.Reason); err != nil {
		return nil, err
	}

	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	entryIDs := uniqueIDs(req.EntryIDs)
	entries, err := d.entryRepo.GetByIDs(ctx, event.ID, entryIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	if len(entries) != len(entryIDs) {
		return nil, errorx.New(errorx.InvalidEntries, "Some entries are invalid or not found")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	updated, err := d.entryRepo.UpdateIneligibility(ctx, event.ID, entryIDs, true, req.Reason)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark entries as ineligible: %v", err)
		return nil, errorx.Unknown
	}

	err = recordAudit(ctx, d.auditLogRepo, event.CommunityID, entity.AuditEntriesMarkedIneligible, entity.Map{
		"eventId":  event.ID,
		"entryIds": entryIDs,
		"reason":   req.Reason,
		"count":    updated,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create audit log: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.MarkIneligibleResponse{Updated: updated}, nil
}

func (d *entryDomain) SetEligibility(
	ctx context.Context, req *model.SetEligibilityRequest,
) (*model.SetEligibilityResponse, error) {
	if req.IsIneligible {
		if err := validateIneligibilityReason(req.Reason); err != nil {
			return nil, err
		}
	}

	entry, err := d.getEntry(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}

	event, err := getEvent(ctx, d.eventRepo, entry.EventID)
	if err != nil {
		return nil, err
	}

	reason := ""
	if req.IsIneligible {
		reason = req.Reason
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err = d.entryRepo.UpdateIneligibility(ctx, entry.EventID, []string{entry.ID}, req.IsIneligible, reason)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update eligibility: %v", err)
		return nil, errorx.Unknown
	}

	var deleted int64
	if !req.IsIneligible {
		deleted, err = d.winnerRepo.DeleteByEntryIDs(ctx, entry.EventID, []string{entry.ID})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete winners of entry: %v", err)
			return nil, errorx.Unknown
		}

		if deleted > 0 {
			if err := d.eventRepo.ReleaseSpots(ctx, entry.EventID, int(deleted)); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot release winner spots: %v", err)
				return nil, errorx.Unknown
			}
		}
	}

	err = recordAudit(ctx, d.auditLogRepo, event.CommunityID, entity.AuditEntryEligibilityUpdated, entity.Map{
		"eventId":        event.ID,
		"entryId":        entry.ID,
		"isIneligible":   req.IsIneligible,
		"reason":         reason,
		"deletedWinners": deleted,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create audit log: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	entry.IsIneligible = req.IsIneligible
	entry.IneligibilityReason = reason
	return &model.SetEligibilityResponse{Entry: convertEntry(entry), DeletedWinners: deleted}, nil
}

func (d *entryDomain) GetDuplicates(
	ctx context.Context, req *model.GetDuplicatesRequest,
) (*model.GetDuplicatesResponse, error) {
	event, err := getEvent(ctx, d.eventRepo, req.EventID)
	if err != nil {
		return nil, err
	}

	report, err := d.detector.AnalyzeEvent(ctx, event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot analyze duplicates: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetDuplicatesResponse{
		Analyses:          []model.DuplicateAnalysis{},
		DiscordDuplicates: []model.DiscordDuplicate{},
		DuplicateEntries:  []model.Entry{},
	}

	flagged := []string{}
	for _, a := range report.Analyses {
		resp.Analyses = append(resp.Analyses, convertDuplicateAnalysis(a))
		if a.IsPotentialDuplicate {
			flagged = append(flagged, a.EntryID)
		}
	}

	for _, g := range report.DiscordGroups {
		resp.DiscordDuplicates = append(resp.DiscordDuplicates, convertDiscordGroup(g))
	}

	entries, err := d.entryRepo.GetByIDs(ctx, event.ID, flagged)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get duplicate entries: %v", err)
		return nil, errorx.Unknown
	}

	for i := range entries {
		resp.DuplicateEntries = append(resp.DuplicateEntries, convertEntry(&entries[i]))
	}

	resp.TotalDuplicates = len(flagged)
	return resp, nil
}

func (d *entryDomain) getEntry(ctx context.Context, entryID string) (*entity.Entry, error) {
	if entryID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty entry id")
	}

	entry, err := d.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found entry")
		}

		xcontext.Logger(ctx).Errorf("Cannot get entry: %v", err)
		return nil, errorx.Unknown
	}

	return entry, nil
}

func isEventOpen(event *entity.Event, now time.Time) bool {
	return event.Status == entity.EventStatusActive && now.Before(event.EndAt)
}

func validateIneligibilityReason(reason string) error {
	n := utf8.RuneCountInString(reason)
	if n == 0 || n > maxIneligibilityReasonLength {
		return errorx.New(errorx.BadRequest,
			"Reason must be between 1 and %d characters", maxIneligibilityReasonLength)
	}

	return nil
}

func uniqueIDs(ids []string) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(result, id) {
			result = append(result, id)
		}
	}

	return result
}
