package game

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/HonungsGrabb/rpg-together/internal/combat"
	"github.com/HonungsGrabb/rpg-together/internal/config"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/persist"
	"github.com/HonungsGrabb/rpg-together/pkg/api"
	"github.com/HonungsGrabb/rpg-together/pkg/dungeon"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type capture struct {
	responses []api.ServerResponse
}

func (c *capture) out(resp api.ServerResponse) {
	c.responses = append(c.responses, resp)
}

func (c *capture) lastOfType(typ string) *api.ServerResponse {
	for i := len(c.responses) - 1; i >= 0; i-- {
		if c.responses[i].Type == typ {
			return &c.responses[i]
		}
	}
	return nil
}

func (c *capture) reset() { c.responses = nil }

func testCtx() context.Context { return context.Background() }

func newTestSession(t *testing.T) (*Session, *capture) {
	t.Helper()
	cap := &capture{}
	cfg := config.Default().Game
	cfg.SaveDebounce = time.Hour // фоновые записи не мешают проверкам
	s := NewSession("u1",
		persist.NewMemoryCharacterStore(),
		persist.NewMemoryPresenceStore(),
		nil, cfg, cap.out)
	return s, cap
}

func createCharacter(t *testing.T, s *Session) {
	t.Helper()
	s.ProcessCommand(api.ClientCommand{
		Action: "create", Slot: 0, Name: "Ann", Race: "human", Class: "warrior",
	})
	if s.char == nil {
		t.Fatal("character not attached after create")
	}
}

func TestCommandsRequireCharacter(t *testing.T) {
	s, cap := newTestSession(t)
	s.ProcessCommand(api.ClientCommand{Action: "move", DX: 1})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("move before character selection must fail")
	}
}

func TestCreateCharacterSpawnsInCastle(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)

	if s.area == nil || s.area.Biome != dungeon.BiomeCastle {
		t.Error("new character did not spawn in the castle")
	}
	loc := s.char.Location
	if loc.WorldX != 0 || loc.WorldY != 0 {
		t.Errorf("spawn cell (%d,%d)", loc.WorldX, loc.WorldY)
	}
	if cap.lastOfType(api.ResponseState) == nil {
		t.Error("create did not push a state snapshot")
	}
}

func TestCreatePersistsImmediately(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)

	loaded, err := s.store.Load(testCtx(), "u1", 0)
	if err != nil {
		t.Fatalf("load after create: %v", err)
	}
	if loaded.Name != "Ann" {
		t.Errorf("stored name = %q", loaded.Name)
	}
}

func TestLoadUnknownSlot(t *testing.T) {
	s, cap := newTestSession(t)
	s.ProcessCommand(api.ClientCommand{Action: "load", Slot: 3})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("loading an empty slot must fail")
	}
}

func TestMoveUpdatesPosition(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)
	before := s.char.Location.PosX

	s.ProcessCommand(api.ClientCommand{Action: "move", DX: 1})
	if s.char.Location.PosX != before+1 {
		t.Errorf("pos = %d, want %d", s.char.Location.PosX, before+1)
	}
}

func TestMoveIntoWallDoesNothing(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)

	// Клетка слева от центра, над ней стена внутреннего двора.
	s.char.Location.PosX = dungeon.WorldWidth/2 - 1
	s.char.Location.PosY = dungeon.WorldHeight/2 - 1
	x, y := s.char.Location.PosX, s.char.Location.PosY
	if s.area.Tile(x, y-1) != dungeon.TileWall {
		t.Fatal("expected a courtyard wall above")
	}

	s.ProcessCommand(api.ClientCommand{Action: "move", DY: -1})
	if s.char.Location.PosX != x || s.char.Location.PosY != y {
		t.Error("walked into a wall")
	}
}

func TestDiagonalMoveRejected(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)
	cap.reset()

	s.ProcessCommand(api.ClientCommand{Action: "move", DX: 1, DY: 1})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("diagonal step accepted")
	}
}

func TestRestGates(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)

	// Без золота.
	s.ProcessCommand(api.ClientCommand{Action: "rest"})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("rest without gold accepted")
	}

	s.char.Gold = 50
	s.char.HP = 1
	cap.reset()
	s.ProcessCommand(api.ClientCommand{Action: "rest"})
	if cap.lastOfType(api.ResponseError) != nil {
		t.Fatal("rest with gold failed")
	}
	if s.char.Gold != 50-restCost {
		t.Errorf("gold = %d", s.char.Gold)
	}
	if s.char.HP <= 1 {
		t.Error("rest did not heal")
	}
}

func TestRestOnlyInCastle(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)

	s.enterArea(1, 0)
	s.char.Gold = 50
	cap.reset()
	s.ProcessCommand(api.ClientCommand{Action: "rest"})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("rest outside the castle accepted")
	}
}

func TestBuyFlow(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)
	s.char.Gold = 20

	s.ProcessCommand(api.ClientCommand{Action: "buy", ItemID: "health_potion"})
	if cap.lastOfType(api.ResponseError) != nil {
		t.Fatal("buy failed")
	}
	if len(s.char.Inventory) != 1 || s.char.Inventory[0].ID != "health_potion" {
		t.Errorf("inventory = %+v", s.char.Inventory)
	}
	if s.char.Gold != 5 {
		t.Errorf("gold = %d", s.char.Gold)
	}

	// Не хватает золота на вторую.
	cap.reset()
	s.ProcessCommand(api.ClientCommand{Action: "buy", ItemID: "health_potion"})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("purchase without gold accepted")
	}

	// Такого товара нет.
	cap.reset()
	s.ProcessCommand(api.ClientCommand{Action: "buy", ItemID: "excalibur"})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("unknown item sold")
	}
}

func TestCombatVictoryCleansUp(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)

	enemy := &domain.Enemy{TemplateID: "rat", Name: "Giant Rat", HP: 1, MaxHP: 1, XP: 10, Gold: 5}
	s.startCombat(enemy, dungeon.Point{X: 3, Y: 3}, 1)
	if s.co.Encounter() == nil {
		t.Fatal("combat not started")
	}

	goldBefore := s.char.Gold
	s.ProcessCommand(api.ClientCommand{Action: "attack"})

	if s.co.Encounter() != nil {
		t.Error("encounter survived the killing blow")
	}
	if s.char.Gold <= goldBefore {
		t.Error("kill reward not granted")
	}
	if s.char.XP == 0 && s.char.Level == 1 {
		t.Error("experience not granted")
	}
	// Победитель встает на клетку, которую занимал враг.
	if s.char.Location.PosX != 3 || s.char.Location.PosY != 3 {
		t.Errorf("player at (%d,%d), want the cleared tile (3,3)",
			s.char.Location.PosX, s.char.Location.PosY)
	}
}

func TestAttackOutsideCombat(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)
	cap.reset()

	s.ProcessCommand(api.ClientCommand{Action: "attack"})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("attack without a fight accepted")
	}
}

func TestMoveBlockedDuringCombat(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)

	enemy := &domain.Enemy{TemplateID: "rat", Name: "Giant Rat", HP: 100, MaxHP: 100, Attack: 1}
	s.startCombat(enemy, dungeon.Point{X: 3, Y: 3}, 1)
	cap.reset()

	s.ProcessCommand(api.ClientCommand{Action: "move", DX: 1})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("moved while fighting")
	}
}

func TestDefeatRespawnsInCastle(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)
	s.char.Gold = 100
	s.char.HP = 1

	// Противник, которого не пробить и который бьет насмерть.
	enemy := &domain.Enemy{
		TemplateID: "demon", Name: "Demon",
		HP: 10000, MaxHP: 10000, Attack: 10000,
	}
	s.startCombat(enemy, dungeon.Point{X: 3, Y: 3}, 1)
	s.ProcessCommand(api.ClientCommand{Action: "attack"})

	if s.co.Encounter() != nil {
		t.Fatal("fight survived the player's death")
	}
	if s.char.Gold != 50 {
		t.Errorf("gold after death = %d, want half", s.char.Gold)
	}
	loc := s.char.Location
	if loc.WorldX != 0 || loc.WorldY != 0 || loc.InDungeon {
		t.Errorf("respawned at %+v", loc)
	}
	if s.char.HP <= 1 {
		t.Error("vitals not restored on respawn")
	}
}

// recordingStore запоминает указатели, переданные в Save.
type recordingStore struct {
	persist.CharacterStore
	mu    sync.Mutex
	saved []*domain.Character
}

func (r *recordingStore) Save(ctx context.Context, userID string, slot int, c *domain.Character) error {
	r.mu.Lock()
	r.saved = append(r.saved, c)
	r.mu.Unlock()
	return r.CharacterStore.Save(ctx, userID, slot, c)
}

func (r *recordingStore) last() *domain.Character {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil
	}
	return r.saved[len(r.saved)-1]
}

func TestDeferredSaveWritesDetachedSnapshot(t *testing.T) {
	rec := &recordingStore{CharacterStore: persist.NewMemoryCharacterStore()}
	cfg := config.Default().Game
	cfg.SaveDebounce = time.Hour
	s := NewSession("u1", rec, persist.NewMemoryPresenceStore(), nil, cfg, func(api.ServerResponse) {})
	createCharacter(t, s)

	if err := s.persistCharacter(testCtx()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	snap := rec.last()
	if snap == nil {
		t.Fatal("nothing saved")
	}
	if snap == s.char {
		t.Fatal("deferred save handed the store the live character")
	}

	// Мутации живого персонажа не должны просачиваться в снимок.
	s.char.Gold = 999
	s.char.KnownSpells["firebolt"] = true
	s.char.Equipment[domain.SlotAmulet] = domain.StaticRef("bone_amulet")
	if snap.Gold == 999 || snap.KnownSpells["firebolt"] || !snap.Equipment[domain.SlotAmulet].IsEmpty() {
		t.Error("snapshot shares mutable state with the live character")
	}
}

func TestConcurrentMovesDoNotRaceWithDeferredSaves(t *testing.T) {
	cap := &capture{}
	cfg := config.Default().Game
	cfg.SaveDebounce = time.Millisecond
	s := NewSession("u1",
		persist.NewMemoryCharacterStore(),
		persist.NewMemoryPresenceStore(),
		nil, cfg, cap.out)
	createCharacter(t, s)

	// Шагаем туда-сюда, пока фоновые сохранения срабатывают между
	// командами. Под детектором гонок здесь ловится чтение живого
	// персонажа горутиной сохранятеля.
	for i := 0; i < 100; i++ {
		s.ProcessCommand(api.ClientCommand{Action: "move", DX: 1})
		s.ProcessCommand(api.ClientCommand{Action: "move", DX: -1})
		time.Sleep(200 * time.Microsecond)
	}
	s.Close(testCtx())
}

func TestClearingFloorCountsDungeonCleared(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)
	s.enterDungeon(1)

	// На этаже остается единственный подконтрольный враг.
	for p := range s.floor.Enemies {
		s.floor.RemoveEnemy(p.X, p.Y)
	}
	enemy := &domain.Enemy{TemplateID: "rat", Name: "Giant Rat", HP: 1, MaxHP: 1, XP: 10, Gold: 5}
	pos := dungeon.Point{X: s.floor.Entry.X, Y: s.floor.Entry.Y}
	s.floor.Enemies[pos] = enemy

	s.startCombat(enemy, pos, 1)
	s.ProcessCommand(api.ClientCommand{Action: "attack"})

	if s.co.Encounter() != nil {
		t.Fatal("encounter survived the killing blow")
	}
	if s.char.Stats.DungeonsCleared != 1 {
		t.Errorf("DungeonsCleared = %d, want 1", s.char.Stats.DungeonsCleared)
	}
	if s.floor.EnemyAt(pos.X, pos.Y) != nil {
		t.Error("defeated enemy still on the floor")
	}
}

func TestExternallyEndedFightYieldsNoLoot(t *testing.T) {
	s, _ := newTestSession(t)
	createCharacter(t, s)

	// Чужой бой: на своей карте он не начинался, сложность неизвестна.
	s.combatOnMap = false
	s.combatDifficulty = 42
	x, y := s.char.Location.PosX, s.char.Location.PosY
	for i := 0; i < 100; i++ {
		s.finishCombat(combat.StateVictory)
	}
	if len(s.char.Inventory) != 0 {
		t.Errorf("joined fight rolled loot: %+v", s.char.Inventory)
	}
	if s.char.Location.PosX != x || s.char.Location.PosY != y {
		t.Error("joined fight moved the player")
	}
}

func TestUnknownActionRejected(t *testing.T) {
	s, cap := newTestSession(t)
	createCharacter(t, s)
	cap.reset()

	s.ProcessCommand(api.ClientCommand{Action: "dance"})
	if cap.lastOfType(api.ResponseError) == nil {
		t.Error("unknown action accepted")
	}
}
