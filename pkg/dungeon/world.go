package dungeon

import (
	"math/rand"

	"github.com/HonungsGrabb/rpg-together/internal/content"
	"github.com/HonungsGrabb/rpg-together/internal/domain"
)

// Размеры клетки внешнего мира
const (
	WorldWidth  = 20
	WorldHeight = 15
)

// Биомы внешнего мира. Замок стоит в (0,0), биом клетки определяется
// ее координатами, не броском.
const (
	BiomeCastle    = "castle"
	BiomePlains    = "plains"
	BiomeForest    = "forest"
	BiomeMountains = "mountains"
)

var biomes = []string{BiomePlains, BiomeForest, BiomeMountains}

// WorldArea - одна клетка внешнего мира
type WorldArea struct {
	Width, Height  int
	WorldX, WorldY int
	Biome          string
	Grid           [][]Tile
	Enemies        map[Point]*domain.Enemy
	DungeonPos     *Point
}

func newWorldArea(worldX, worldY int) *WorldArea {
	a := &WorldArea{
		Width: WorldWidth, Height: WorldHeight,
		WorldX: worldX, WorldY: worldY,
		Enemies: make(map[Point]*domain.Enemy),
	}
	a.Grid = make([][]Tile, a.Height)
	for y := range a.Grid {
		a.Grid[y] = make([]Tile, a.Width)
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// GenerateArea строит клетку мира. Чем дальше от замка, тем больше
// врагов и выше шанс входа в подземелье.
func GenerateArea(rng *rand.Rand, worldX, worldY, playerLevel int) *WorldArea {
	dist := abs(worldX) + abs(worldY)
	if dist == 0 {
		return generateCastle()
	}

	a := newWorldArea(worldX, worldY)
	seed := abs(worldX*1000 + worldY)
	a.Biome = biomes[seed%len(biomes)]

	switch a.Biome {
	case BiomeForest:
		a.scatter(rng, TileTree, 0.15)
	case BiomeMountains:
		a.scatter(rng, TileWall, 0.1)
	}

	dungeonChance := 0.1 + float64(dist)*0.05
	if rng.Float64() < dungeonChance {
		a.placeDungeon(rng)
	}

	difficulty := playerLevel - 1
	if difficulty < 1 {
		difficulty = 1
	}
	count := 2 + dist/2 + rng.Intn(3)
	a.placeEnemies(rng, count, difficulty)

	return a
}

// generateCastle строит стартовую клетку: стены по периметру с
// проходами по центру каждой стороны, без врагов и подземелий.
func generateCastle() *WorldArea {
	a := newWorldArea(0, 0)
	a.Biome = BiomeCastle

	midX, midY := a.Width/2, a.Height/2
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			onEdge := y == 0 || y == a.Height-1 || x == 0 || x == a.Width-1
			if !onEdge {
				continue
			}
			gate := (y == 0 || y == a.Height-1) && x >= midX-1 && x <= midX+1 ||
				(x == 0 || x == a.Width-1) && y >= midY-1 && y <= midY+1
			if !gate {
				a.Grid[y][x] = TileWall
			}
		}
	}

	// Внутренний двор
	for x := midX - 3; x <= midX+3; x++ {
		if x != midX {
			a.Grid[midY-2][x] = TileWall
			a.Grid[midY+2][x] = TileWall
		}
	}
	return a
}

func (a *WorldArea) scatter(rng *rand.Rand, t Tile, density float64) {
	for y := 1; y < a.Height-1; y++ {
		for x := 1; x < a.Width-1; x++ {
			if rng.Float64() < density {
				a.Grid[y][x] = t
			}
		}
	}
}

func (a *WorldArea) placeDungeon(rng *rand.Rand) {
	for attempt := 0; attempt < 50; attempt++ {
		x := 2 + rng.Intn(a.Width-4)
		y := 2 + rng.Intn(a.Height-4)
		if a.Grid[y][x] == TileGround {
			a.Grid[y][x] = TileEntrance
			a.DungeonPos = &Point{X: x, Y: y}
			return
		}
	}
}

func (a *WorldArea) placeEnemies(rng *rand.Rand, count, difficulty int) {
	placed := 0
	for attempt := 0; placed < count && attempt < 100; attempt++ {
		x := 1 + rng.Intn(a.Width-2)
		y := 1 + rng.Intn(a.Height-2)
		p := Point{X: x, Y: y}
		if a.Grid[y][x] != TileGround {
			continue
		}
		if _, busy := a.Enemies[p]; busy {
			continue
		}
		tpl := content.RollEnemyForArea(rng, difficulty)
		a.Enemies[p] = content.ScaleEnemy(rng, tpl, difficulty)
		a.Grid[y][x] = TileEnemy
		placed++
	}
}

// Tile возвращает клетку; за краем карты стена.
func (a *WorldArea) Tile(x, y int) Tile {
	if x < 0 || x >= a.Width || y < 0 || y >= a.Height {
		return TileWall
	}
	return a.Grid[y][x]
}

// Walkable - можно ли встать на клетку.
func (a *WorldArea) Walkable(x, y int) bool {
	if x < 0 || x >= a.Width || y < 0 || y >= a.Height {
		return false
	}
	t := a.Grid[y][x]
	return t != TileWall && t != TileTree && t != TileWater
}

// IsEdge - лежит ли клетка на границе (переход в соседнюю зону).
func (a *WorldArea) IsEdge(x, y int) bool {
	return x <= 0 || x >= a.Width-1 || y <= 0 || y >= a.Height-1
}

// EnemyAt возвращает врага на клетке (nil - пусто).
func (a *WorldArea) EnemyAt(x, y int) *domain.Enemy {
	return a.Enemies[Point{X: x, Y: y}]
}

// RemoveEnemy снимает врага с карты после победы.
func (a *WorldArea) RemoveEnemy(x, y int) {
	p := Point{X: x, Y: y}
	if _, ok := a.Enemies[p]; ok {
		delete(a.Enemies, p)
		a.Grid[y][x] = TileGround
	}
}
