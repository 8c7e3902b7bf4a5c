package party

import (
	"os"
	"testing"

	"github.com/HonungsGrabb/rpg-together/pkg/api"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func member(id, name string) api.PartyMemberInfo {
	return api.PartyMemberInfo{UserID: id, Name: name, Level: 1}
}

func TestPartyAddRespectsCap(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	for i, id := range []string{"u2", "u3", "u4"} {
		if !p.Add(member(id, "M")) {
			t.Fatalf("add %d rejected below cap", i)
		}
	}
	if p.Add(member("u5", "Late")) {
		t.Error("add above cap must be rejected")
	}
	if p.Size() != MaxMembers {
		t.Errorf("size = %d", p.Size())
	}
}

func TestPartyAddRejectsDuplicate(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	if p.Add(member("u1", "Ann")) {
		t.Error("duplicate member accepted")
	}
	if p.Size() != 1 {
		t.Errorf("size = %d", p.Size())
	}
}

func TestPartyRemoveTransfersLeadership(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	p.Add(member("u2", "Bob"))
	p.Add(member("u3", "Eve"))

	if empty := p.Remove("u1"); empty {
		t.Fatal("party reported empty with members left")
	}
	if p.LeaderID() != "u2" {
		t.Errorf("leadership went to %s, want u2", p.LeaderID())
	}
	if p.Has("u1") {
		t.Error("removed member still present")
	}
}

func TestPartyRemoveLastMemberDissolves(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	if empty := p.Remove("u1"); !empty {
		t.Error("expected dissolve signal on last member leaving")
	}
}

func TestPartyApplyReplacesRoster(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	p.Add(member("u2", "Bob"))

	p.Apply(api.PartyUpdatePayload{
		PartyID:  "p1",
		LeaderID: "u3",
		Members:  []api.PartyMemberInfo{member("u3", "Eve"), member("u1", "Ann")},
	})

	if p.LeaderID() != "u3" || p.Size() != 2 {
		t.Errorf("leader=%s size=%d", p.LeaderID(), p.Size())
	}
	if p.Has("u2") {
		t.Error("stale member survived roster replacement")
	}
}

func TestPartySnapshotIsDetached(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	snap := p.Snapshot()
	snap.Members[0].Name = "Mallory"
	if p.Snapshot().Members[0].Name != "Ann" {
		t.Error("snapshot shares backing array with roster")
	}
}

func TestPartyUpdateMemberCard(t *testing.T) {
	p := NewParty("p1", member("u1", "Ann"))
	p.Update(api.PartyMemberInfo{UserID: "u1", Name: "Ann", Level: 5, HP: 40, MaxHP: 120, Online: true})
	got := p.Snapshot().Members[0]
	if got.Level != 5 || got.HP != 40 {
		t.Errorf("card not updated: %+v", got)
	}
}
