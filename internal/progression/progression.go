// Package progression отвечает за опыт и рост уровня.
package progression

import (
	"github.com/HonungsGrabb/rpg-together/internal/domain"
	"github.com/HonungsGrabb/rpg-together/internal/stats"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Прирост за уровень.
const (
	HPPerLevel   = 20
	ManaPerLevel = 10
	StatPerLevel = 2
)

// AwardExperience начисляет опыт и проводит все накопленные повышения
// уровня. Порог следующего уровня растет в полтора раза (с округлением
// вниз). Каждый взятый уровень полностью восстанавливает HP и ману.
// Возвращает число полученных уровней.
func AwardExperience(c *domain.Character, amount int) int {
	if amount <= 0 {
		return 0
	}
	c.XP += amount

	levels := 0
	for c.XP >= c.XPToLevel {
		c.XP -= c.XPToLevel
		c.Level++
		levels++
		c.XPToLevel = c.XPToLevel * 3 / 2

		c.BaseMaxHP += HPPerLevel
		c.BaseMaxMana += ManaPerLevel
		c.Base.Add(domain.Attributes{
			Attack: StatPerLevel, Magic: StatPerLevel, Defense: StatPerLevel,
			Resist: StatPerLevel, Speed: StatPerLevel,
		})

		// Полное восстановление на каждом взятом уровне.
		c.HP = stats.MaxHP(c)
		c.Mana = stats.MaxMana(c)
	}

	if levels > 0 && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "progression",
			"character": c.Name,
			"level":     c.Level,
			"gained":    levels,
		}).Info("Level up")
	}
	return levels
}
