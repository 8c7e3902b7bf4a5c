package game

import (
	"github.com/HonungsGrabb/rpg-together/internal/combat"
	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/stats"
	"github.com/HonungsGrabb/rpg-together/pkg/api"
)

// CharacterView — срез персонажа для отрисовки.
type CharacterView struct {
	Name      string             `json:"name"`
	Race      string             `json:"race"`
	Class     string             `json:"class"`
	Level     int                `json:"level"`
	XP        int                `json:"xp"`
	XPToLevel int                `json:"xpToLevel"`
	HP        int                `json:"hp"`
	MaxHP     int                `json:"maxHp"`
	Mana      int                `json:"mana"`
	MaxMana   int                `json:"maxMana"`
	Gold      int                `json:"gold"`
	Attack    int                `json:"attack"`
	Magic     int                `json:"magic"`
	Defense   int                `json:"defense"`
	Resist    int                `json:"resist"`
	Speed     int                `json:"speed"`
	Location  domain.Location    `json:"location"`
	Inventory []ItemView         `json:"inventory"`
	Equipment map[string]ItemView `json:"equipment"`
	Spells    []string           `json:"spells"`
	Stats     domain.LifetimeStats `json:"stats"`
}

// ItemView — предмет глазами клиента.
type ItemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	MinLevel int    `json:"minLevel,omitempty"`
}

// EnemyView — враг в бою.
type EnemyView struct {
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"maxHp"`
	Alive bool   `json:"alive"`
}

// CombatView — текущий бой.
type CombatView struct {
	State   string      `json:"state"`
	Round   int         `json:"round"`
	Target  int         `json:"target"`
	Enemies []EnemyView `json:"enemies"`
}

// MapView — видимая карта: сетка клеток и позиция игрока.
type MapView struct {
	Kind   string  `json:"kind"` // "world" или "dungeon"
	Biome  string  `json:"biome,omitempty"`
	Floor  int     `json:"floor,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Grid   [][]int `json:"grid"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
}

// StateView — полный снимок для клиента после каждой команды.
type StateView struct {
	Character *CharacterView         `json:"character,omitempty"`
	Map       *MapView               `json:"map,omitempty"`
	Combat    *CombatView            `json:"combat,omitempty"`
	Party     *api.PartyUpdatePayload `json:"party,omitempty"`
	Others    []OtherView            `json:"others,omitempty"`
}

// OtherView — чужой игрок в той же клетке мира.
type OtherView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (s *Session) pushState() {
	if s.char == nil {
		return
	}
	s.send(api.ServerResponse{Type: api.ResponseState, Payload: s.buildState()})
}

func (s *Session) buildState() *StateView {
	view := &StateView{Character: s.characterView()}

	if s.char.Location.InDungeon && s.floor != nil {
		view.Map = s.floorView()
	} else if s.area != nil {
		view.Map = s.areaView()
	}

	if enc := s.co.Encounter(); enc != nil {
		view.Combat = combatView(enc)
	}
	if p := s.co.Party(); p != nil {
		snap := p.Snapshot()
		view.Party = &snap
	}

	loc := s.char.Location
	for _, rp := range s.co.Others() {
		if rp.WorldX == loc.WorldX && rp.WorldY == loc.WorldY &&
			rp.InDungeon == loc.InDungeon &&
			(!loc.InDungeon || rp.DungeonFloor == loc.DungeonFloor) {
			view.Others = append(view.Others, OtherView{
				UserID: rp.UserID, Name: rp.Name, Level: rp.Level, X: rp.X, Y: rp.Y,
			})
		}
	}
	return view
}

func (s *Session) characterView() *CharacterView {
	c := s.char
	cv := &CharacterView{
		Name: c.Name, Race: c.Race, Class: c.Class,
		Level: c.Level, XP: c.XP, XPToLevel: c.XPToLevel,
		HP: c.HP, MaxHP: stats.MaxHP(c),
		Mana: c.Mana, MaxMana: stats.MaxMana(c),
		Gold:     c.Gold,
		Attack:   stats.Effective(c, domain.StatAttack, nil),
		Magic:    stats.Effective(c, domain.StatMagic, nil),
		Defense:  stats.Effective(c, domain.StatDefense, nil),
		Resist:   stats.Effective(c, domain.StatResist, nil),
		Speed:    stats.Effective(c, domain.StatSpeed, nil),
		Location: c.Location,
		Stats:    c.Stats,
		Equipment: make(map[string]ItemView),
	}
	for _, ref := range c.Inventory {
		cv.Inventory = append(cv.Inventory, itemView(c, ref))
	}
	for _, slot := range domain.EquipmentSlots {
		if ref, ok := c.Equipment[slot]; ok && !ref.IsEmpty() {
			cv.Equipment[string(slot)] = itemView(c, ref)
		}
	}
	for id := range c.KnownSpells {
		cv.Spells = append(cv.Spells, id)
	}
	return cv
}

func itemView(c *domain.Character, ref domain.ItemRef) ItemView {
	it := c.ResolveItem(ref, content.LookupItem)
	if it == nil {
		return ItemView{ID: ref.ID, Name: "???"}
	}
	return ItemView{ID: it.ID, Name: it.Name, Category: it.Category, MinLevel: it.MinLevel}
}

func combatView(enc *combat.Encounter) *CombatView {
	cv := &CombatView{
		State: string(enc.State), Round: enc.Round, Target: enc.Target,
	}
	for _, en := range enc.Enemies {
		cv.Enemies = append(cv.Enemies, EnemyView{
			Name: en.Name, HP: en.HP, MaxHP: en.MaxHP, Alive: en.Alive(),
		})
	}
	return cv
}

func (s *Session) areaView() *MapView {
	mv := &MapView{
		Kind: "world", Biome: s.area.Biome,
		Width: s.area.Width, Height: s.area.Height,
		X: s.char.Location.PosX, Y: s.char.Location.PosY,
	}
	mv.Grid = make([][]int, s.area.Height)
	for y := range mv.Grid {
		mv.Grid[y] = make([]int, s.area.Width)
		for x := range mv.Grid[y] {
			mv.Grid[y][x] = int(s.area.Grid[y][x])
		}
	}
	return mv
}

func (s *Session) floorView() *MapView {
	mv := &MapView{
		Kind: "dungeon", Floor: s.floor.Level,
		Width: s.floor.Width, Height: s.floor.Height,
		X: s.char.Location.PosX, Y: s.char.Location.PosY,
	}
	mv.Grid = make([][]int, s.floor.Height)
	for y := range mv.Grid {
		mv.Grid[y] = make([]int, s.floor.Width)
		for x := range mv.Grid[y] {
			mv.Grid[y][x] = int(s.floor.Grid[y][x])
		}
	}
	return mv
}
