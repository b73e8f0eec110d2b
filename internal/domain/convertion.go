package domain

import (
	"time"

	"github.com/droplabz/backend/internal/domain/duplicate"
	"github.com/droplabz/backend/internal/entity"
	"github.com/droplabz/backend/internal/model"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertCommunity(community *entity.Community) model.Community {
	if community == nil {
		return model.Community{}
	}

	return model.Community{
		ID:                  community.ID,
		Handle:              community.Handle,
		DisplayName:         community.DisplayName,
		GuildID:             community.GuildID,
		WinnerChannelID:     community.WinnerChannelID,
		AutoAnnounceWinners: community.AutoAnnounceWinners,
	}
}

func convertAuditLog(log *entity.AuditLog) model.AuditLog {
	return model.AuditLog{
		ID:          log.ID,
		CommunityID: log.CommunityID,
		ActorID:     log.ActorID,
		Action:      string(log.Action),
		Meta:        log.Meta,
		CreatedAt:   log.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertRequirement(requirement *entity.Requirement, statement string) model.Requirement {
	return model.Requirement{
		ID:        requirement.ID,
		Type:      string(requirement.Type),
		Config:    requirement.Config,
		Statement: statement,
	}
}

func convertEvent(event *entity.Event, requirements []model.Requirement) model.Event {
	return model.Event{
		ID:            event.ID,
		CommunityID:   event.CommunityID,
		Title:         event.Title,
		Type:          string(event.Type),
		Status:        string(event.Status),
		SelectionMode: string(event.SelectionMode),
		MaxWinners:    event.MaxWinners,
		ReservedSpots: event.ReservedSpots,
		WinnerCount:   event.WinnerCount,
		AutoDraw:      event.AutoDraw,
		EndAt:         event.EndAt.Format(defaultTimeLayout),
		CreatedAt:     event.CreatedAt.Format(defaultTimeLayout),
		Requirements:  requirements,
	}
}

func convertEntry(entry *entity.Entry) model.Entry {
	if entry == nil {
		return model.Entry{}
	}

	results := []model.RequirementResult{}
	for _, r := range entry.VerificationResult {
		results = append(results, model.RequirementResult{
			RequirementID: r.RequirementID,
			Type:          string(r.Type),
			Valid:         r.Valid,
			Reason:        r.Reason,
		})
	}

	verifiedAt := ""
	if entry.VerifiedAt.Valid {
		verifiedAt = entry.VerifiedAt.Time.Format(defaultTimeLayout)
	}

	return model.Entry{
		ID:                  entry.ID,
		EventID:             entry.EventID,
		WalletAddress:       entry.WalletAddress,
		DiscordUserID:       entry.DiscordUserID,
		Status:              string(entry.Status),
		VerificationResult:  results,
		VerifiedAt:          verifiedAt,
		IsIneligible:        entry.IsIneligible,
		IneligibilityReason: entry.IneligibilityReason,
		CreatedAt:           entry.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertWinner(winner *entity.Winner) model.Winner {
	var entry *model.Entry
	if winner.Entry.ID != "" {
		e := convertEntry(&winner.Entry)
		entry = &e
	}

	return model.Winner{
		ID:       winner.ID,
		EventID:  winner.EventID,
		EntryID:  winner.EntryID,
		Entry:    entry,
		PickedBy: winner.PickedBy,
		PickedAt: winner.PickedAt.Format(defaultTimeLayout),
	}
}

func convertWinners(winners []entity.Winner) []model.Winner {
	result := []model.Winner{}
	for i := range winners {
		result = append(result, convertWinner(&winners[i]))
	}

	return result
}

func convertDuplicateAnalysis(analysis duplicate.Analysis) model.DuplicateAnalysis {
	signals := []model.DuplicateSignal{}
	for _, s := range analysis.Signals {
		signals = append(signals, model.DuplicateSignal{
			Type:            string(s.Type),
			Severity:        string(s.Severity),
			Description:     s.Description,
			RelatedEntryIDs: s.RelatedEntryIDs,
		})
	}

	return model.DuplicateAnalysis{
		EntryID:              analysis.EntryID,
		WalletAddress:        analysis.WalletAddress,
		DiscordUserID:        analysis.DiscordUserID,
		IsPotentialDuplicate: analysis.IsPotentialDuplicate,
		Signals:              signals,
		RiskScore:            analysis.RiskScore,
	}
}

func convertDiscordGroup(group duplicate.DiscordGroup) model.DiscordDuplicate {
	return model.DiscordDuplicate{
		DiscordUserID: group.DiscordUserID,
		WalletCount:   group.WalletCount,
		EntryIDs:      group.EntryIDs,
	}
}
