package party

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/HonungsGrabb/rpg-together/internal/combat"
	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/pkg/api"
)

// fakePublisher пишет исходящие события в память вместо канала.
type fakePublisher struct {
	events   []string
	payloads []any
}

func (f *fakePublisher) Publish(event string, payload any) error {
	f.events = append(f.events, event)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) count(event string) int {
	n := 0
	for _, e := range f.events {
		if e == event {
			n++
		}
	}
	return n
}

func (f *fakePublisher) last(event string) any {
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i] == event {
			return f.payloads[i]
		}
	}
	return nil
}

func newTestCoordinator(t *testing.T, userID, name string) (*Coordinator, *fakePublisher) {
	t.Helper()
	c, err := content.NewCharacter(name, "human", "warrior")
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	pub := &fakePublisher{}
	rng := rand.New(rand.NewSource(42))
	co := NewCoordinator(userID, c, pub, rng, combat.Config{}, content.LookupSpell)
	return co, pub
}

func envelope(t *testing.T, event string, payload any) api.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s: %v", event, err)
	}
	return api.Envelope{Event: event, Payload: raw}
}

func testEnemy(hp int) *domain.Enemy {
	return &domain.Enemy{
		TemplateID: "rat", Name: "Giant Rat",
		HP: hp, MaxHP: hp, Attack: 1, Speed: 1, XP: 10, Gold: 5,
	}
}

// joinParties связывает двух координаторов в одну группу из двух.
func joinParties(leader, member *Coordinator) {
	id := "party-test"
	leader.party = NewParty(id, leader.memberInfo())
	leader.party.Add(member.memberInfo())
	member.party = NewParty(id, leader.memberInfo())
	member.party.Add(member.memberInfo())
}

func TestSoloCombatStaysPrivate(t *testing.T) {
	co, pub := newTestCoordinator(t, "u1", "Ann")
	co.StartCombat([]*domain.Enemy{testEnemy(30)})
	if pub.count(api.EventCombatStart) != 0 {
		t.Error("solo fight leaked to the broadcast channel")
	}
}

func TestPartyCombatBroadcastsSnapshots(t *testing.T) {
	leader, pub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)

	leader.StartCombat([]*domain.Enemy{testEnemy(30), testEnemy(15)})

	raw := pub.last(api.EventCombatStart)
	if raw == nil {
		t.Fatal("combat-start not published")
	}
	p := raw.(api.CombatStartPayload)
	if p.UserID != "u1" || len(p.Enemies) != 2 {
		t.Errorf("payload = %+v", p)
	}
	if p.Enemies[0].HP != 30 || p.Enemies[1].HP != 15 {
		t.Error("enemy snapshots carry wrong HP")
	}
	if p.CombatID == "" || p.CombatID != leader.CombatID() {
		t.Error("combat id mismatch")
	}
}

func TestAfterActionPublishesDamageWithResultingHP(t *testing.T) {
	leader, pub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(100)})

	res, err := leader.Encounter().Attack()
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	leader.AfterAction(res)

	raw := pub.last(api.EventCombatAction)
	if raw == nil {
		t.Fatal("combat-action not published")
	}
	p := raw.(api.CombatActionPayload)
	if p.Damage != res.Damage || p.ResultingHP != res.TargetHP {
		t.Errorf("payload %+v does not match result %+v", p, res)
	}
	if p.CombatID != leader.CombatID() {
		t.Error("combat id mismatch")
	}
}

func TestVictoryBroadcastsCombatEnd(t *testing.T) {
	leader, pub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(1)})

	res, err := leader.Encounter().Attack()
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	if res.State != combat.StateVictory {
		t.Fatalf("expected victory against 1 HP enemy, got %v", res.State)
	}
	leader.AfterAction(res)

	raw := pub.last(api.EventCombatEnd)
	if raw == nil {
		t.Fatal("combat-end not published on victory")
	}
	if !raw.(api.CombatEndPayload).Victory {
		t.Error("victory flag lost")
	}
	if leader.Encounter() != nil {
		t.Error("encounter not cleared after resolution")
	}
}

func TestFleeDoesNotEndOthersFight(t *testing.T) {
	leader, pub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(100)})

	// Побег завершает бой только локально.
	leader.AfterAction(&combat.Result{Action: "flee", Fled: true, State: combat.StateFled})

	if pub.count(api.EventCombatEnd) != 0 {
		t.Error("flee must not broadcast combat-end")
	}
	if leader.Encounter() != nil {
		t.Error("local encounter not cleared")
	}
}

func TestMemberJoinsBroadcastFight(t *testing.T) {
	leader, leaderPub := newTestCoordinator(t, "u1", "Ann")
	member, memberPub := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(30)})

	start := leaderPub.last(api.EventCombatStart).(api.CombatStartPayload)
	member.HandleEnvelope(envelope(t, api.EventCombatStart, start))

	if member.Encounter() == nil {
		t.Fatal("member did not reconstruct the fight")
	}
	if member.CombatID() != leader.CombatID() {
		t.Error("combat ids diverged")
	}
	if member.Encounter().Enemies[0].HP != 30 {
		t.Error("enemy copy has wrong HP")
	}
	if memberPub.count(api.EventCombatJoin) != 1 {
		t.Error("member did not announce combat-join")
	}
}

func TestCombatStartFromStrangerIgnored(t *testing.T) {
	co, _ := newTestCoordinator(t, "u1", "Ann")
	start := api.CombatStartPayload{
		CombatID: "x", UserID: "stranger",
		Enemies: []api.EnemySnapshot{{TemplateID: "rat", Name: "Giant Rat", HP: 10, MaxHP: 10}},
	}
	co.HandleEnvelope(envelope(t, api.EventCombatStart, start))
	if co.Encounter() != nil {
		t.Error("fight from a non-party member was accepted")
	}
}

func TestOwnFightTakesPriority(t *testing.T) {
	leader, _ := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)

	member.StartCombat([]*domain.Enemy{testEnemy(50)})
	ownID := member.CombatID()

	start := api.CombatStartPayload{
		CombatID: "other", UserID: "u1",
		Enemies: []api.EnemySnapshot{{TemplateID: "rat", Name: "Giant Rat", HP: 10, MaxHP: 10}},
	}
	member.HandleEnvelope(envelope(t, api.EventCombatStart, start))

	if member.CombatID() != ownID {
		t.Error("own active fight was replaced by a broadcast one")
	}
}

func TestExternalDamageLowersEnemyHP(t *testing.T) {
	leader, leaderPub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(30)})
	start := leaderPub.last(api.EventCombatStart).(api.CombatStartPayload)
	member.HandleEnvelope(envelope(t, api.EventCombatStart, start))

	action := api.CombatActionPayload{
		CombatID: leader.CombatID(), UserID: "u1", Name: "Ann",
		Action: "attack", TargetIndex: 0, Damage: 12, ResultingHP: 18,
	}
	member.HandleEnvelope(envelope(t, api.EventCombatAction, action))

	if hp := member.Encounter().Enemies[0].HP; hp != 18 {
		t.Errorf("enemy HP = %d, want 18", hp)
	}
}

func TestExternalCombatEndResolvesQuietly(t *testing.T) {
	leader, leaderPub := newTestCoordinator(t, "u1", "Ann")
	member, memberPub := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(30)})
	start := leaderPub.last(api.EventCombatStart).(api.CombatStartPayload)
	member.HandleEnvelope(envelope(t, api.EventCombatStart, start))

	end := api.CombatEndPayload{CombatID: leader.CombatID(), UserID: "u1", Victory: true}
	member.HandleEnvelope(envelope(t, api.EventCombatEnd, end))

	if member.Encounter() != nil {
		t.Error("encounter survived external combat-end")
	}
	// Развязку по чужому сообщению не ретранслируем, иначе шторм эха.
	if memberPub.count(api.EventCombatEnd) != 0 {
		t.Error("member rebroadcast combat-end")
	}
}

func TestOwnEchoIgnored(t *testing.T) {
	leader, leaderPub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(30)})
	start := leaderPub.last(api.EventCombatStart).(api.CombatStartPayload)

	// Собственное сообщение вернулось каналом.
	leader.HandleEnvelope(envelope(t, api.EventCombatStart, start))

	if !leader.Encounter().Active() {
		t.Error("echo disturbed the local fight")
	}
}

func TestTickAbandonsQuietSharedFight(t *testing.T) {
	leader, _ := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(30)})

	var notices []string
	leader.OnNotice = func(s string) { notices = append(notices, s) }

	leader.Tick(time.Now().Add(EncounterTTL + time.Second))

	if leader.Encounter() != nil {
		t.Error("abandoned fight not cleared")
	}
	if len(notices) == 0 {
		t.Error("player was not told the fight was abandoned")
	}
}

func TestTickKeepsFreshFight(t *testing.T) {
	leader, _ := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)
	leader.StartCombat([]*domain.Enemy{testEnemy(30)})

	leader.Tick(time.Now().Add(EncounterTTL / 2))

	if leader.Encounter() == nil {
		t.Error("fresh fight was abandoned")
	}
}

func TestTickPrunesStalePlayers(t *testing.T) {
	co, _ := newTestCoordinator(t, "u1", "Ann")
	co.HandleEnvelope(envelope(t, api.EventPlayerMove, api.PlayerMovePayload{
		UserID: "u2", Name: "Bob", WorldX: 1, WorldY: 1,
	}))
	if len(co.Others()) != 1 {
		t.Fatal("move not cached")
	}
	co.Tick(time.Now().Add(StaleAfter + time.Second))
	if len(co.Others()) != 0 {
		t.Error("stale player survived the sweep")
	}
}

func TestChatHistoryTrimmed(t *testing.T) {
	co, _ := newTestCoordinator(t, "u1", "Ann")
	for i := 0; i < ChatHistory+10; i++ {
		if err := co.Say(fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("say: %v", err)
		}
	}
	chat := co.Chat()
	if len(chat) != ChatHistory {
		t.Fatalf("history length = %d, want %d", len(chat), ChatHistory)
	}
	if chat[len(chat)-1].Message != fmt.Sprintf("msg %d", ChatHistory+9) {
		t.Error("history dropped the newest message instead of the oldest")
	}
}

func TestSayRejectsEmptyMessage(t *testing.T) {
	co, pub := newTestCoordinator(t, "u1", "Ann")
	if err := co.Say(""); err == nil {
		t.Error("empty chat message accepted")
	}
	if pub.count(api.EventChat) != 0 {
		t.Error("rejected message still published")
	}
}

func TestInviteRespondFlow(t *testing.T) {
	leader, leaderPub := newTestCoordinator(t, "u1", "Ann")
	invitee, inviteePub := newTestCoordinator(t, "u2", "Bob")

	if err := leader.Invite("u2", "Bob"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	inv := leaderPub.last(api.EventPartyInvite).(api.PartyInvitePayload)

	invitee.HandleEnvelope(envelope(t, api.EventPartyInvite, inv))
	if err := invitee.Respond(true); err != nil {
		t.Fatalf("respond: %v", err)
	}

	resp := inviteePub.last(api.EventPartyResponse)
	if resp == nil {
		t.Fatal("acceptance not published")
	}

	leader.HandleEnvelope(envelope(t, api.EventPartyResponse, resp))
	if leader.Party() == nil || leader.Party().Size() != 2 {
		t.Fatal("leader roster not grown")
	}
	if !leader.Party().Has("u2") {
		t.Error("invitee missing from roster")
	}

	// Лидер разослал новый состав; приглашенный применяет его.
	update := leaderPub.last(api.EventPartyUpdate)
	if update == nil {
		t.Fatal("roster update not published")
	}
	invitee.HandleEnvelope(envelope(t, api.EventPartyUpdate, update))
	if invitee.Party() == nil || invitee.Party().Size() != 2 {
		t.Error("invitee roster not synced")
	}
}

func TestRespondWithoutInvite(t *testing.T) {
	co, _ := newTestCoordinator(t, "u1", "Ann")
	if err := co.Respond(true); err == nil {
		t.Error("expected error without a pending invite")
	}
}

func TestInviteRequiresLeader(t *testing.T) {
	co, _ := newTestCoordinator(t, "u2", "Bob")
	co.party = NewParty("p1", api.PartyMemberInfo{UserID: "u1", Name: "Ann", Online: true})
	co.party.Add(co.memberInfo())
	if err := co.Invite("u3", "Eve"); err == nil {
		t.Error("non-leader invite accepted")
	}
}

func TestPartyUpdateKickingSelfClearsParty(t *testing.T) {
	co, _ := newTestCoordinator(t, "u2", "Bob")
	co.party = NewParty("p1", api.PartyMemberInfo{UserID: "u1", Name: "Ann", Online: true})
	co.party.Add(co.memberInfo())

	co.HandleEnvelope(envelope(t, api.EventPartyUpdate, api.PartyUpdatePayload{
		PartyID: "p1", LeaderID: "u1",
		Members: []api.PartyMemberInfo{{UserID: "u1", Name: "Ann"}},
	}))

	if co.Party() != nil {
		t.Error("kicked player still thinks they are in the party")
	}
}

func TestLeaderRebroadcastsRosterWhenMemberLeaves(t *testing.T) {
	leader, pub := newTestCoordinator(t, "u1", "Ann")
	member, _ := newTestCoordinator(t, "u2", "Bob")
	joinParties(leader, member)

	leader.HandleEnvelope(envelope(t, api.EventPlayerLeave, api.PlayerLeavePayload{UserID: "u2"}))

	update := pub.last(api.EventPartyUpdate)
	if update == nil {
		t.Fatal("leader did not rebroadcast the roster")
	}
	if len(update.(api.PartyUpdatePayload).Members) != 1 {
		t.Error("departed member still in roster")
	}
}
