// Package dungeon генерирует карты: клетки внешнего мира и этажи
// подземелий. Вся случайность идет через переданный rng, поэтому
// одинаковый сид дает одинаковую карту.
package dungeon

// Tile - тип клетки карты
type Tile int

const (
	TileGround Tile = iota
	TileWall
	TileEntrance // вход в подземелье (мир) или лестница вниз (этаж)
	TileEnemy
	TileTree
	TileWater
	TileChest
)

// Point - координаты клетки
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
