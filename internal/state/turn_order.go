package state

import (
	"sort"

	"tactics-server/internal/domain"
)

// TurnOrder - порядок ходов внутри раунда.
// Order сортируется по убыванию инициативы в момент входа в бой или
// спавна/удаления сущности; мертвые ПРОПУСКАЮТСЯ при продвижении,
// но из списка не удаляются.
type TurnOrder struct {
	Order        []string `json:"order"`
	CurrentIndex int      `json:"currentIndex"`
	RoundNumber  int      `json:"roundNumber"`
}

func (t TurnOrder) clone() TurnOrder {
	if len(t.Order) > 0 {
		order := make([]string, len(t.Order))
		copy(order, t.Order)
		t.Order = order
	}
	return t
}

// initiativeOrder строит порядок ходов: инициатива по убыванию,
// при равенстве - по ID (стабильность не зависит от порядка итерации карты).
func initiativeOrder(entities map[string]domain.Entity, livingOnly bool) []string {
	ids := make([]string, 0, len(entities))
	for id, e := range entities {
		if livingOnly && !e.IsAlive {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := entities[ids[i]], entities[ids[j]]
		if a.Initiative != b.Initiative {
			return a.Initiative > b.Initiative
		}
		return a.ID < b.ID
	})
	return ids
}
