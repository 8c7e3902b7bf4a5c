// Package game связывает все слои в игровую сессию одного клиента:
// персонаж, карты, бой, группу и сохранения. Клиент ведет свою
// симуляцию сам, сервер-арбитр ей не нужен.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HonungsGrabb/rpg-together/internal/combat"
	"github.com/HonungsGrabb/rpg-together/internal/config"
	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/inventory"
	"github.com/HonungsGrabb/rpg-together/internal/party"
	"github.com/HonungsGrabb/rpg-together/internal/persist"
	"github.com/HonungsGrabb/rpg-together/internal/stats"
	"github.com/HonungsGrabb/rpg-together/pkg/api"
	"github.com/HonungsGrabb/rpg-together/pkg/dungeon"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
	"github.com/HonungsGrabb/rpg-together/pkg/utils"
)

const restCost = 10

var (
	errNoCharacter = errors.New("персонаж не выбран")
	errInCombat    = errors.New("сначала закончите бой")
	errNoCombat    = errors.New("вы не в бою")
	errNotInCastle = errors.New("доступно только в замке")
)

// Session — игровая сессия одного подключения.
type Session struct {
	mu sync.Mutex

	userID string
	slot   int
	char   *domain.Character

	store    persist.CharacterStore
	presence persist.PresenceStore
	pub      party.Publisher
	cfg      config.Game
	rng      *rand.Rand

	co    *party.Coordinator
	saver *persist.Saver

	// Карты этой сессии. Клетки мира кэшируются по координатам, этаж
	// подземелья живет, пока персонаж внутри.
	areas map[dungeon.Point]*dungeon.WorldArea
	area  *dungeon.WorldArea
	floor *dungeon.Floor

	// Где стоит враг текущего боя, чтобы убрать его с карты при победе.
	combatPos       dungeon.Point
	combatOnMap     bool
	combatDifficulty int

	out func(api.ServerResponse)
}

// NewSession создает сессию до выбора персонажа.
func NewSession(userID string, store persist.CharacterStore, presence persist.PresenceStore, pub party.Publisher, cfg config.Game, out func(api.ServerResponse)) *Session {
	return &Session{
		userID:   userID,
		store:    store,
		presence: presence,
		pub:      pub,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(utils.StringToSeed(userID + fmt.Sprint(time.Now().UnixNano())))),
		areas:    make(map[dungeon.Point]*dungeon.WorldArea),
		out:      out,
	}
}

func (s *Session) send(resp api.ServerResponse) {
	if s.out != nil {
		s.out(resp)
	}
}

func (s *Session) log(text string) {
	s.send(api.ServerResponse{Type: api.ResponseLog, Message: text})
}

func (s *Session) fail(err error) {
	s.send(api.ServerResponse{Type: api.ResponseError, Message: err.Error()})
}

// ProcessCommand применяет одну команду клиента. Все мутации состояния
// сессии идут через этот вход и через HandleEnvelope, под одним мьютексом.
func (s *Session) ProcessCommand(cmd api.ClientCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch cmd.Action {
	case "create":
		err = s.createCharacter(cmd.Slot, cmd.Name, cmd.Race, cmd.Class)
	case "load":
		err = s.loadCharacter(cmd.Slot)
	case "move":
		err = s.move(cmd.DX, cmd.DY)
	case "attack":
		err = s.combatAction(func(e *combat.Encounter) (*combat.Result, error) { return e.Attack() })
	case "cast":
		err = s.combatAction(func(e *combat.Encounter) (*combat.Result, error) { return e.Cast(cmd.SpellID) })
	case "use":
		err = s.useItem(cmd.Index)
	case "flee":
		err = s.combatAction(func(e *combat.Encounter) (*combat.Result, error) { return e.Flee() })
	case "target":
		err = s.setTarget(cmd.TargetIndex)
	case "equip":
		err = s.inventoryAction(func() (string, error) { return inventory.Equip(s.char, cmd.Index) })
	case "unequip":
		err = s.inventoryAction(func() (string, error) { return inventory.Unequip(s.char, domain.Slot(cmd.ItemSlot)) })
	case "drop":
		err = s.inventoryAction(func() (string, error) { return inventory.DropItem(s.char, cmd.Index) })
	case "learn":
		err = s.inventoryAction(func() (string, error) { return inventory.LearnSpell(s.char, cmd.Index) })
	case "rest":
		err = s.rest()
	case "buy":
		err = s.buy(cmd.ItemID)
	case "say":
		err = s.say(cmd.Message)
	case "invite":
		err = s.withCharacter(func() error { return s.co.Invite(cmd.ToUserID, cmd.ToName) })
	case "respond":
		err = s.withCharacter(func() error { return s.co.Respond(cmd.Accept) })
	case "leave-party":
		err = s.withCharacter(func() error { s.co.LeaveParty(); return nil })
	case "state":
		err = s.withCharacter(func() error { return nil })
	default:
		err = fmt.Errorf("неизвестное действие: %s", cmd.Action)
	}

	if err != nil {
		s.fail(err)
		return
	}
	s.pushState()
}

func (s *Session) withCharacter(fn func() error) error {
	if s.char == nil {
		return errNoCharacter
	}
	return fn()
}

// --- Жизненный цикл персонажа ---

func (s *Session) attach(c *domain.Character, slot int) {
	s.char = c
	s.slot = slot
	s.co = party.NewCoordinator(s.userID, c, s.pub, s.rng, combat.Config{
		ItemUseCostsTurn: s.cfg.ItemUseCostsTurn,
	}, content.LookupSpell)
	s.co.OnNotice = s.log
	s.saver = persist.NewSaver(s.persistCharacter, s.cfg.SaveDebounce)

	s.enterArea(c.Location.WorldX, c.Location.WorldY)
	if c.Location.InDungeon {
		// Этажи не сохраняются: после перезахода персонаж оказывается
		// у входа свежесгенерированного этажа того же уровня.
		s.floor = dungeon.GenerateFloor(s.rng, c.Location.DungeonFloor)
		c.Location.PosX, c.Location.PosY = s.floor.Entry.X, s.floor.Entry.Y
	}
	s.co.AnnounceJoin()

	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"user_id":   s.userID,
		"name":      c.Name,
		"level":     c.Level,
	}).Info("Character attached")
}

func (s *Session) createCharacter(slot int, name, race, class string) error {
	c, err := content.NewCharacter(name, race, class)
	if err != nil {
		return err
	}
	c.Location = domain.Location{WorldX: 0, WorldY: 0, PosX: dungeon.WorldWidth / 2, PosY: dungeon.WorldHeight / 2}
	if err := s.store.Save(context.Background(), s.userID, slot, c); err != nil {
		return err
	}
	s.attach(c, slot)
	s.log(fmt.Sprintf("Добро пожаловать в мир, %s!", c.Name))
	return nil
}

func (s *Session) loadCharacter(slot int) error {
	c, err := s.store.Load(context.Background(), s.userID, slot)
	if err != nil {
		return err
	}
	s.attach(c, slot)
	s.log(fmt.Sprintf("С возвращением, %s!", c.Name))
	return nil
}

// persistCharacter вызывается из горутины сохранятеля. Хранилищу
// отдается снимок, снятый под мьютексом: живого персонажа в этот
// момент может мутировать ProcessCommand.
func (s *Session) persistCharacter(ctx context.Context) error {
	s.mu.Lock()
	var snapshot *domain.Character
	if s.char != nil {
		snapshot = s.char.Clone()
	}
	slot := s.slot
	s.mu.Unlock()
	if snapshot == nil {
		return nil
	}
	return s.store.Save(ctx, s.userID, slot, snapshot)
}

// Close сбрасывает несохраненное и объявляет об уходе.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	co, saver := s.co, s.saver
	s.mu.Unlock()

	if co != nil {
		co.AnnounceLeave()
	}
	if saver != nil {
		if err := saver.Close(ctx); err != nil {
			logger.Log.WithField("component", "game").WithError(err).Warn("Final save failed")
		}
	}
	if s.presence != nil {
		if err := s.presence.Remove(ctx, s.userID); err != nil {
			logger.Log.WithField("component", "game").WithError(err).Debug("Presence remove failed")
		}
	}
}

// --- Перемещение ---

func (s *Session) enterArea(worldX, worldY int) {
	key := dungeon.Point{X: worldX, Y: worldY}
	area, ok := s.areas[key]
	if !ok {
		level := 1
		if s.char != nil {
			level = s.char.Level
		}
		area = dungeon.GenerateArea(s.rng, worldX, worldY, level)
		s.areas[key] = area
	}
	s.area = area
}

func (s *Session) move(dx, dy int) error {
	if s.char == nil {
		return errNoCharacter
	}
	if s.co.Encounter() != nil && s.co.Encounter().Active() {
		return errInCombat
	}
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx != 0 && dy != 0) {
		return fmt.Errorf("недопустимый шаг")
	}

	if s.char.Location.InDungeon {
		return s.moveInDungeon(dx, dy)
	}
	return s.moveInWorld(dx, dy)
}

func (s *Session) moveInWorld(dx, dy int) error {
	loc := &s.char.Location
	nx, ny := loc.PosX+dx, loc.PosY+dy

	// Переход через край клетки мира
	if nx < 0 || nx >= s.area.Width || ny < 0 || ny >= s.area.Height ||
		(s.area.Biome != dungeon.BiomeCastle && s.area.IsEdge(nx, ny)) {
		loc.WorldX += dx
		loc.WorldY += dy
		s.enterArea(loc.WorldX, loc.WorldY)
		switch {
		case dx > 0:
			loc.PosX, loc.PosY = 1, clamp(ny, 1, s.area.Height-2)
		case dx < 0:
			loc.PosX, loc.PosY = s.area.Width-2, clamp(ny, 1, s.area.Height-2)
		case dy > 0:
			loc.PosX, loc.PosY = clamp(nx, 1, s.area.Width-2), 1
		default:
			loc.PosX, loc.PosY = clamp(nx, 1, s.area.Width-2), s.area.Height-2
		}
		s.afterMove()
		return nil
	}

	if !s.area.Walkable(nx, ny) {
		return nil // шаг в стену просто не происходит
	}

	switch s.area.Tile(nx, ny) {
	case dungeon.TileEnemy:
		enemy := s.area.EnemyAt(nx, ny)
		if enemy == nil {
			s.area.RemoveEnemy(nx, ny)
			return nil
		}
		s.startCombat(enemy, dungeon.Point{X: nx, Y: ny}, maxInt(1, s.char.Level-1))
		return nil
	case dungeon.TileEntrance:
		loc.PosX, loc.PosY = nx, ny
		s.enterDungeon(1)
		return nil
	}

	loc.PosX, loc.PosY = nx, ny
	s.afterMove()
	return nil
}

func (s *Session) moveInDungeon(dx, dy int) error {
	loc := &s.char.Location
	nx, ny := loc.PosX+dx, loc.PosY+dy

	if !s.floor.Walkable(nx, ny) {
		return nil
	}

	switch s.floor.Tile(nx, ny) {
	case dungeon.TileEnemy:
		enemy := s.floor.EnemyAt(nx, ny)
		if enemy == nil {
			s.floor.RemoveEnemy(nx, ny)
			return nil
		}
		s.startCombat(enemy, dungeon.Point{X: nx, Y: ny}, s.floor.Level)
		return nil
	case dungeon.TileEntrance:
		loc.PosX, loc.PosY = nx, ny
		s.char.Stats.FloorsExplored++
		s.enterDungeon(s.floor.Level + 1)
		s.log(fmt.Sprintf("Вы спускаетесь на этаж %d.", s.floor.Level))
		return nil
	case dungeon.TileChest:
		if s.floor.OpenChest(nx, ny) {
			s.openChest()
		}
		loc.PosX, loc.PosY = nx, ny
		s.afterMove()
		return nil
	}

	loc.PosX, loc.PosY = nx, ny
	s.afterMove()
	return nil
}

func (s *Session) enterDungeon(level int) {
	s.floor = dungeon.GenerateFloor(s.rng, level)
	loc := &s.char.Location
	loc.InDungeon = true
	loc.DungeonFloor = level
	loc.PosX, loc.PosY = s.floor.Entry.X, s.floor.Entry.Y
	if level == 1 {
		s.log("Вы входите в подземелье.")
	}
	s.afterMove()
}

func (s *Session) leaveDungeon() {
	loc := &s.char.Location
	loc.InDungeon = false
	loc.DungeonFloor = 0
	s.floor = nil
	s.enterArea(loc.WorldX, loc.WorldY)
	loc.PosX, loc.PosY = s.area.Width/2, s.area.Height/2
}

func (s *Session) afterMove() {
	s.co.AnnounceMove()
	s.saver.Request()
}

func (s *Session) openChest() {
	ref := content.RollLoot(s.rng, s.floor.Level, true)
	if ref.IsEmpty() {
		s.log("Сундук пуст.")
		return
	}
	if err := inventory.AddItem(s.char, ref); err != nil {
		s.log("Инвентарь полон, находка остается в сундуке.")
		return
	}
	if it := s.char.ResolveItem(ref, content.LookupItem); it != nil {
		s.log(fmt.Sprintf("В сундуке вы находите: %s!", it.Name))
	}
}

// --- Бой ---

func (s *Session) startCombat(enemy *domain.Enemy, pos dungeon.Point, difficulty int) {
	s.combatPos = pos
	s.combatOnMap = true
	s.combatDifficulty = difficulty
	// Бой идет на копии: враг на карте не трогается до развязки.
	s.co.StartCombat([]*domain.Enemy{enemy.Clone()})
	s.log(fmt.Sprintf("На вас нападает %s!", enemy.Name))
	s.saver.Request()
}

func (s *Session) combatAction(act func(*combat.Encounter) (*combat.Result, error)) error {
	if s.char == nil {
		return errNoCharacter
	}
	enc := s.co.Encounter()
	if enc == nil {
		return errNoCombat
	}

	res, err := act(enc)
	if err != nil {
		return err
	}
	for _, line := range res.Log {
		s.log(line)
	}
	for _, k := range res.Kills {
		if k.Levels > 0 {
			s.log(fmt.Sprintf("Уровень повышен! Теперь вы %d уровня.", s.char.Level))
		}
	}
	s.co.AfterAction(res)
	s.finishCombat(res.State)
	s.saver.Request()
	return nil
}

func (s *Session) useItem(index int) error {
	if s.char == nil {
		return errNoCharacter
	}
	enc := s.co.Encounter()
	if enc != nil && enc.Active() {
		return s.combatAction(func(e *combat.Encounter) (*combat.Result, error) { return e.UseItem(index) })
	}
	return s.inventoryAction(func() (string, error) { return inventory.UseItem(s.char, index) })
}

func (s *Session) setTarget(index int) error {
	if s.char == nil {
		return errNoCharacter
	}
	enc := s.co.Encounter()
	if enc == nil {
		return errNoCombat
	}
	enc.SetTarget(index)
	return nil
}

// finishCombat прибирает после развязки: снимает врага с карты, бросает
// добычу, хоронит павших.
func (s *Session) finishCombat(state combat.State) {
	switch state {
	case combat.StateVictory:
		// Добыча и уборка карты только для боя, начатого на своей карте.
		// Чужой бой, завершившийся по сообщению инициатора, локальной
		// карты не касается, а его сложность здесь неизвестна.
		if s.combatOnMap {
			if s.char.Location.InDungeon && s.floor != nil {
				s.floor.RemoveEnemy(s.combatPos.X, s.combatPos.Y)
				if len(s.floor.Enemies) == 0 {
					s.char.Stats.DungeonsCleared++
					s.log("Этаж зачищен!")
				}
			} else if s.area != nil {
				s.area.RemoveEnemy(s.combatPos.X, s.combatPos.Y)
			}
			// Игрок занимает освободившуюся клетку.
			s.char.Location.PosX, s.char.Location.PosY = s.combatPos.X, s.combatPos.Y
			s.combatOnMap = false

			ref := content.RollLoot(s.rng, s.combatDifficulty, false)
			if !ref.IsEmpty() {
				if err := inventory.AddItem(s.char, ref); err == nil {
					if it := s.char.ResolveItem(ref, content.LookupItem); it != nil {
						s.log(fmt.Sprintf("Добыча: %s!", it.Name))
					}
				}
			}
		}
	case combat.StateDefeat:
		s.combatOnMap = false
		s.die()
	case combat.StateFled:
		s.combatOnMap = false
	}
}

// die возвращает павшего в замок: половина золота теряется, жизнь и
// мана восстанавливаются полностью.
func (s *Session) die() {
	lost := s.char.Gold / 2
	s.char.Gold -= lost
	s.char.Location = domain.Location{WorldX: 0, WorldY: 0}
	s.leaveDungeon()
	s.char.HP = stats.MaxHP(s.char)
	s.char.Mana = stats.MaxMana(s.char)
	s.log(fmt.Sprintf("Вы приходите в себя в замке. Потеряно %d золота.", lost))
	s.co.AnnounceMove()
}

// --- Инвентарь, отдых, магазин ---

func (s *Session) inventoryAction(act func() (string, error)) error {
	if s.char == nil {
		return errNoCharacter
	}
	msg, err := act()
	if err != nil {
		return err
	}
	s.log(msg)
	s.saver.Request()
	return nil
}

func (s *Session) rest() error {
	if s.char == nil {
		return errNoCharacter
	}
	if s.area == nil || s.area.Biome != dungeon.BiomeCastle {
		return errNotInCastle
	}
	if s.char.Gold < restCost {
		return fmt.Errorf("отдых стоит %d золота", restCost)
	}
	s.char.Gold -= restCost
	s.char.HP = stats.MaxHP(s.char)
	s.char.Mana = stats.MaxMana(s.char)
	s.log("Вы отдыхаете в таверне. Силы полностью восстановлены.")
	s.saver.Request()
	return nil
}

func (s *Session) buy(itemID string) error {
	if s.char == nil {
		return errNoCharacter
	}
	if s.area == nil || s.area.Biome != dungeon.BiomeCastle {
		return errNotInCastle
	}
	price, ok := content.ShopPrice(itemID)
	if !ok {
		return fmt.Errorf("торговец этим не торгует")
	}
	if s.char.Gold < price {
		return fmt.Errorf("не хватает золота: нужно %d", price)
	}
	if err := inventory.AddItem(s.char, domain.StaticRef(itemID)); err != nil {
		return err
	}
	s.char.Gold -= price
	it := content.LookupItem(itemID)
	s.log(fmt.Sprintf("Куплено: %s за %d золота.", it.Name, price))
	s.saver.Request()
	return nil
}

func (s *Session) say(message string) error {
	if s.char == nil {
		return errNoCharacter
	}
	return s.co.Say(message)
}

// --- Канал и обслуживание ---

// HandleEnvelope применяет сообщение широковещательного канала.
func (s *Session) HandleEnvelope(env api.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.co == nil {
		return
	}
	before := s.co.Encounter()
	s.co.HandleEnvelope(env)
	// Чужое сообщение могло довести бой до развязки.
	if before != nil && s.co.Encounter() == nil {
		s.finishCombat(before.State)
		s.saver.Request()
	}
	s.pushState()
}

// Tick выполняет периодическую работу: сердцебиение присутствия и
// уборку координатора. Вызывается примерно раз в 30 секунд.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.char == nil {
		return
	}
	s.co.Tick(now)

	if s.presence == nil {
		return
	}
	loc := s.char.Location
	row := persist.PresenceRow{
		UserID: s.userID, Name: s.char.Name, Race: s.char.Race,
		Class: s.char.Class, Level: s.char.Level,
		WorldX: loc.WorldX, WorldY: loc.WorldY, X: loc.PosX, Y: loc.PosY,
		InDungeon: loc.InDungeon, DungeonFloor: loc.DungeonFloor,
		HP: s.char.HP, MaxHP: stats.MaxHP(s.char),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.presence.Heartbeat(ctx, row); err != nil {
		logger.Log.WithField("component", "game").WithError(err).Debug("Presence heartbeat failed")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
