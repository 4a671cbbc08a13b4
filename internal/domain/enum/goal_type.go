package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// GoalType says whether a sales target is expressed per day or per month
type GoalType int

const (
	GoalMonthly GoalType = 0
	GoalDaily   GoalType = 1
)

var goalTypeLabels = []string{"monthly", "daily"}

func (g GoalType) String() string { return label(goalTypeLabels, int(g)) }

func (g GoalType) IsValid() bool { return g == GoalMonthly || g == GoalDaily }

func (g GoalType) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

func (g *GoalType) UnmarshalJSON(data []byte) error {
	i, err := decode(goalTypeLabels, data)
	if err != nil {
		return err
	}
	*g = GoalType(i)
	return nil
}

func (g GoalType) Value() (driver.Value, error) {
	return int64(g), nil
}

func (g *GoalType) Scan(value interface{}) error {
	*g = GoalType(scan(value))
	return nil
}
