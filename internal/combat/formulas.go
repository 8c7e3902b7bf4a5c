package combat

import (
	"math"
	"math/rand"
)

// Формулы урона. Используются симметрично: игрок по врагу и враг по игроку.

// variance дает случайную поправку -2..+2: критические и скользящие
// удары без отдельной механики.
func variance(rng *rand.Rand) int {
	return rng.Intn(5) - 2
}

// PhysicalDamage считает физический урон: сырая сила против половины
// защиты цели. Урон никогда не меньше 1, иначе бой может не закончиться.
func PhysicalDamage(rng *rand.Rand, rawPower, targetDefense int) int {
	dmg := int(math.Floor(float64(rawPower)-float64(targetDefense)*0.5)) + variance(rng)
	if dmg < 1 {
		return 1
	}
	return dmg
}

// MagicDamage — та же формула против сопротивления магии.
func MagicDamage(rng *rand.Rand, rawPower, targetResist int) int {
	return PhysicalDamage(rng, rawPower, targetResist)
}

// FleeChance — вероятность побега. Растет на 5% за каждую единицу
// преимущества в скорости, зажата в [0,1].
func FleeChance(playerSpeed, avgEnemySpeed float64) float64 {
	p := 0.4 + (playerSpeed-avgEnemySpeed)*0.05
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
