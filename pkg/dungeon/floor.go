package dungeon

import (
	"math/rand"

	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

// Размеры этажа подземелья
const (
	FloorWidth  = 15
	FloorHeight = 15
)

// Rect - вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W+1 && r.X+r.W+1 >= other.X &&
		r.Y <= other.Y+other.H+1 && r.Y+r.H+1 >= other.Y
}

// Floor - один этаж подземелья
type Floor struct {
	Width, Height int
	Level         int
	Grid          [][]Tile
	Rooms         []Rect
	Enemies       map[Point]*domain.Enemy
	Entry         Point
	Stairs        Point
	Chests        map[Point]bool
}

// GenerateFloor строит этаж: комнаты, коридоры, лестница в дальней
// комнате, враги и сундуки по полу.
func GenerateFloor(rng *rand.Rand, level int) *Floor {
	f := &Floor{
		Width: FloorWidth, Height: FloorHeight, Level: level,
		Enemies: make(map[Point]*domain.Enemy),
		Chests:  make(map[Point]bool),
	}
	f.Grid = make([][]Tile, f.Height)
	for y := range f.Grid {
		f.Grid[y] = make([]Tile, f.Width)
		for x := range f.Grid[y] {
			f.Grid[y][x] = TileWall
		}
	}

	f.generateRooms(rng)
	f.placeEntryAndStairs()
	f.placeEnemies(rng)
	f.placeChests(rng)
	return f
}

func (f *Floor) generateRooms(rng *rand.Rand) {
	numRooms := 5 + rng.Intn(4)
	for i := 0; i < numRooms; i++ {
		room := Rect{
			W: 3 + rng.Intn(4),
			H: 3 + rng.Intn(4),
		}
		room.X = 1 + rng.Intn(f.Width-room.W-2)
		room.Y = 1 + rng.Intn(f.Height-room.H-2)

		overlaps := false
		for _, other := range f.Rooms {
			if room.Intersects(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		f.Rooms = append(f.Rooms, room)
		f.carveRoom(room)
	}

	// Соединяем комнаты коридорами по цепочке
	for i := 1; i < len(f.Rooms); i++ {
		px, py := f.Rooms[i-1].Center()
		cx, cy := f.Rooms[i].Center()
		if rng.Intn(2) == 0 {
			f.carveHCorridor(px, cx, py)
			f.carveVCorridor(py, cy, cx)
		} else {
			f.carveVCorridor(py, cy, px)
			f.carveHCorridor(px, cx, cy)
		}
	}
}

func (f *Floor) carveRoom(room Rect) {
	for y := room.Y; y < room.Y+room.H; y++ {
		for x := room.X; x < room.X+room.W; x++ {
			f.Grid[y][x] = TileGround
		}
	}
}

func (f *Floor) carveHCorridor(x1, x2, y int) {
	start, end := min(x1, x2), max(x1, x2)
	for x := start; x <= end; x++ {
		if y > 0 && y < f.Height-1 && x > 0 && x < f.Width-1 {
			f.Grid[y][x] = TileGround
		}
	}
}

func (f *Floor) carveVCorridor(y1, y2, x int) {
	start, end := min(y1, y2), max(y1, y2)
	for y := start; y <= end; y++ {
		if y > 0 && y < f.Height-1 && x > 0 && x < f.Width-1 {
			f.Grid[y][x] = TileGround
		}
	}
}

// placeEntryAndStairs ставит вход в первой комнате, лестницу в
// последней. На этаже из одной комнаты ищется дальняя клетка пола.
func (f *Floor) placeEntryAndStairs() {
	if len(f.Rooms) > 0 {
		x, y := f.Rooms[0].Center()
		f.Entry = Point{X: x, Y: y}
	} else {
		f.Entry = f.anyGround()
	}

	if len(f.Rooms) > 1 {
		x, y := f.Rooms[len(f.Rooms)-1].Center()
		f.Stairs = Point{X: x, Y: y}
	} else {
		maxDist := -1
		for y := 1; y < f.Height-1; y++ {
			for x := 1; x < f.Width-1; x++ {
				if f.Grid[y][x] != TileGround {
					continue
				}
				d := abs(x-f.Entry.X) + abs(y-f.Entry.Y)
				if d > maxDist {
					maxDist = d
					f.Stairs = Point{X: x, Y: y}
				}
			}
		}
	}
	f.Grid[f.Stairs.Y][f.Stairs.X] = TileEntrance
}

func (f *Floor) placeEnemies(rng *rand.Rand) {
	count := 3 + f.Level/2 + rng.Intn(3)
	placed := 0
	for attempt := 0; placed < count && attempt < 100; attempt++ {
		x := 1 + rng.Intn(f.Width-2)
		y := 1 + rng.Intn(f.Height-2)
		p := Point{X: x, Y: y}
		if f.Grid[y][x] != TileGround || p == f.Entry || p == f.Stairs {
			continue
		}
		if _, busy := f.Enemies[p]; busy {
			continue
		}
		tpl := content.RollEnemyForArea(rng, f.Level)
		f.Enemies[p] = content.ScaleEnemy(rng, tpl, f.Level)
		f.Grid[y][x] = TileEnemy
		placed++
	}
}

func (f *Floor) placeChests(rng *rand.Rand) {
	count := 1 + rng.Intn(2)
	placed := 0
	for attempt := 0; placed < count && attempt < 50; attempt++ {
		x := 1 + rng.Intn(f.Width-2)
		y := 1 + rng.Intn(f.Height-2)
		p := Point{X: x, Y: y}
		if f.Grid[y][x] != TileGround || p == f.Entry || p == f.Stairs {
			continue
		}
		f.Chests[p] = true
		f.Grid[y][x] = TileChest
		placed++
	}
}

func (f *Floor) anyGround() Point {
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			if f.Grid[y][x] == TileGround {
				return Point{X: x, Y: y}
			}
		}
	}
	return Point{X: 1, Y: 1}
}

// Tile возвращает клетку; за краем карты стена.
func (f *Floor) Tile(x, y int) Tile {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return TileWall
	}
	return f.Grid[y][x]
}

// Walkable - можно ли встать на клетку.
func (f *Floor) Walkable(x, y int) bool {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return false
	}
	return f.Grid[y][x] != TileWall
}

// EnemyAt возвращает врага на клетке (nil - пусто).
func (f *Floor) EnemyAt(x, y int) *domain.Enemy {
	return f.Enemies[Point{X: x, Y: y}]
}

// RemoveEnemy снимает врага после победы.
func (f *Floor) RemoveEnemy(x, y int) {
	p := Point{X: x, Y: y}
	if _, ok := f.Enemies[p]; ok {
		delete(f.Enemies, p)
		f.Grid[y][x] = TileGround
	}
}

// OpenChest убирает сундук с карты. Возврат false - сундука нет.
func (f *Floor) OpenChest(x, y int) bool {
	p := Point{X: x, Y: y}
	if !f.Chests[p] {
		return false
	}
	delete(f.Chests, p)
	f.Grid[y][x] = TileGround
	return true
}
