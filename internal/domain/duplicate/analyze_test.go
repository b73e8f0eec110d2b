package duplicate

import (
	"fmt"
	"testing"
	"time"

	"github.com/droplabz/backend/config"
	"github.com/droplabz/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func defaultPolicy() Policy {
	return PolicyFromConfig(config.Default().Duplicate)
}

func entryAt(id, wallet, discordID string, createdAt time.Time) entity.Entry {
	return entity.Entry{
		Base:          entity.Base{ID: id, CreatedAt: createdAt},
		WalletAddress: wallet,
		DiscordUserID: discordID,
	}
}

func signalTypes(a Analysis) []SignalType {
	result := []SignalType{}
	for _, s := range a.Signals {
		result = append(result, s.Type)
	}
	return result
}

func TestAnalyze_DiscordReuse(t *testing.T) {
	now := time.Now()
	entries := []entity.Entry{
		entryAt("A", "W1", "D1", now),
		entryAt("B", "W2", "D1", now.Add(5*time.Second)),
		entryAt("C", "W3", "D2", now.Add(time.Hour)),
	}

	analyses := Analyze(defaultPolicy(), entries, nil)
	require.Len(t, analyses, 3)

	byID := map[string]Analysis{}
	for _, a := range analyses {
		byID[a.EntryID] = a
	}

	for _, id := range []string{"A", "B"} {
		a := byID[id]
		require.True(t, a.IsPotentialDuplicate)
		require.GreaterOrEqual(t, a.RiskScore, 40)
		require.Equal(t, []SignalType{SignalDiscordReuse}, signalTypes(a))
		require.Equal(t, SeverityHigh, a.Signals[0].Severity)
		require.Equal(t, "Discord account used with 2 different wallets in this event", a.Signals[0].Description)
	}
	require.Equal(t, []string{"B"}, byID["A"].Signals[0].RelatedEntryIDs)

	require.False(t, byID["C"].IsPotentialDuplicate)
	require.Zero(t, byID["C"].RiskScore)

	// Sorted by risk descending.
	require.Equal(t, "C", analyses[2].EntryID)
}

func TestAnalyze_TimingPattern(t *testing.T) {
	now := time.Now()
	entries := []entity.Entry{}
	for i := 0; i < 6; i++ {
		entries = append(entries, entryAt(fmt.Sprintf("E%d", i), fmt.Sprintf("W%d", i), "",
			now.Add(time.Duration(i)*10*time.Second)))
	}
	entries = append(entries, entryAt("late", "W-late", "", now.Add(10*time.Minute)))

	analyses := Analyze(defaultPolicy(), entries, nil)
	for _, a := range analyses {
		if a.EntryID == "late" {
			require.False(t, a.IsPotentialDuplicate)
			continue
		}

		require.Equal(t, []SignalType{SignalTimingPattern}, signalTypes(a))
		require.Equal(t, 20, a.RiskScore)
		require.Len(t, a.Signals[0].RelatedEntryIDs, 5)
	}
}

func TestAnalyze_TimingPattern_Unsorted(t *testing.T) {
	policy := defaultPolicy()
	policy.TimingBurst = 3

	now := time.Now()
	offsets := []int{300, 0, 150, 30, 270, 60, 240, 90, 210, 120, 180}
	entries := []entity.Entry{}
	for _, offset := range offsets {
		entries = append(entries, entryAt(fmt.Sprintf("E%d", offset), fmt.Sprintf("W%d", offset), "",
			now.Add(time.Duration(offset)*time.Second)))
	}

	byID := map[string]Analysis{}
	for _, a := range Analyze(policy, entries, nil) {
		byID[a.EntryID] = a
	}

	for _, entry := range entries {
		want := []string{}
		for _, other := range entries {
			d := entry.CreatedAt.Sub(other.CreatedAt)
			if other.ID != entry.ID && d <= policy.TimingWindow && d >= -policy.TimingWindow {
				want = append(want, other.ID)
			}
		}

		a := byID[entry.ID]
		if len(want) < policy.TimingBurst {
			require.False(t, a.IsPotentialDuplicate, entry.ID)
			continue
		}

		require.True(t, a.IsPotentialDuplicate, entry.ID)
		require.ElementsMatch(t, want, a.Signals[0].RelatedEntryIDs, entry.ID)
	}

	require.False(t, byID["E0"].IsPotentialDuplicate)
	require.Len(t, byID["E150"].Signals[0].RelatedEntryIDs, 4)
}

func TestAnalyze_MultiEventAndCap(t *testing.T) {
	policy := defaultPolicy()
	policy.DiscordReuseScore = 80
	policy.MultiEventScore = 30

	now := time.Now()
	entries := []entity.Entry{
		entryAt("A", "W1", "D1", now),
		entryAt("B", "W2", "D1", now.Add(time.Hour)),
	}

	others := []entity.Entry{}
	for i := 0; i < 5; i++ {
		others = append(others, entryAt(fmt.Sprintf("O%d", i), "W1", "", now))
	}
	others = append(others, entryAt("O-W2", "W2", "", now))

	analyses := Analyze(policy, entries, others)
	require.Equal(t, "A", analyses[0].EntryID)
	require.Equal(t, 100, analyses[0].RiskScore)
	require.Equal(t, []SignalType{SignalDiscordReuse, SignalMultiEvent}, signalTypes(analyses[0]))
	require.Equal(t, "Wallet participated in 5 other events from this community",
		analyses[0].Signals[1].Description)

	require.Equal(t, 80, analyses[1].RiskScore)
}

func TestGroupByDiscord(t *testing.T) {
	now := time.Now()
	entries := []entity.Entry{
		entryAt("A", "W1", "D2", now),
		entryAt("B", "W2", "D2", now),
		entryAt("C", "W3", "D1", now),
		entryAt("D", "W4", "", now),
		entryAt("E", "W5", "D1", now),
		entryAt("F", "W6", "D3", now),
	}

	groups := GroupByDiscord(entries)
	require.Equal(t, []DiscordGroup{
		{DiscordUserID: "D1", WalletCount: 2, EntryIDs: []string{"C", "E"}},
		{DiscordUserID: "D2", WalletCount: 2, EntryIDs: []string{"A", "B"}},
	}, groups)
}
