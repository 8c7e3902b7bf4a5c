package api

import "testing"

func TestCombatActionValidate(t *testing.T) {
	good := CombatActionPayload{CombatID: "c1", TargetIndex: 0, Damage: 5}
	if err := good.Validate(); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	cases := []CombatActionPayload{
		{TargetIndex: 0, Damage: 5},                      // нет combatId
		{CombatID: "c1", TargetIndex: -1, Damage: 5},     // отрицательная цель
		{CombatID: "c1", TargetIndex: 0, Damage: -3},     // отрицательный урон
	}
	for i, p := range cases {
		if err := p.Validate(); err == nil {
			t.Errorf("case %d accepted", i)
		}
	}
}

func TestCombatStartValidate(t *testing.T) {
	good := CombatStartPayload{CombatID: "c1", Enemies: []EnemySnapshot{{Name: "Rat", HP: 1}}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := (CombatStartPayload{CombatID: "c1"}).Validate(); err == nil {
		t.Error("empty enemy list accepted")
	}
	if err := (CombatStartPayload{Enemies: []EnemySnapshot{{Name: "Rat"}}}).Validate(); err == nil {
		t.Error("missing combat id accepted")
	}
}

func TestChatValidate(t *testing.T) {
	if err := (ChatPayload{Message: "hi"}).Validate(); err != nil {
		t.Errorf("valid chat rejected: %v", err)
	}
	if err := (ChatPayload{}).Validate(); err == nil {
		t.Error("empty chat accepted")
	}
}
