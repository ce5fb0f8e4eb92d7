package aggregate

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightsheet-cli/internal/table"
)

var (
	s = table.String
	n = table.Number
)

func TestAggregateMeanFirstSeenOrder(t *testing.T) {
	tb := table.New([]string{"cat", "val"}, []table.Row{
		{s("A"), n(10)}, {s("A"), n(20)}, {s("B"), n(5)},
	})
	pts, err := Aggregate(tb, "cat", "val", "", Options{})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, "A", pts[0].Name)
	assert.Equal(t, 15.0, pts[0].Value)
	assert.Equal(t, "B", pts[1].Name)
	assert.Equal(t, 5.0, pts[1].Value)

	b, err := json.Marshal(pts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"A","fullName":"A","val":15},{"name":"B","fullName":"B","val":5}]`, string(b))
}

func TestAggregateSkipsBadRows(t *testing.T) {
	tb := table.New([]string{"cat", "val"}, []table.Row{
		{s(" A "), s("3")},
		{s(""), n(100)},
		{s("   "), n(100)},
		{s("A"), s("oops")},
		{s("A"), table.Empty()},
		{s("A"), n(4)},
	})
	pts, err := Aggregate(tb, "cat", "val", "", Options{})
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, 3.5, pts[0].Value)
	assert.Equal(t, 2, pts[0].Count)
}

func TestAggregateRoundsAndSecondColumn(t *testing.T) {
	tb := table.New([]string{"cat", "a", "b"}, []table.Row{
		{s("x"), n(1), n(2)}, {s("x"), n(1), s("")}, {s("x"), n(2), n(3)},
		{s("y"), n(1), s("-")},
	})
	pts, err := Aggregate(tb, "cat", "a", "b", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1.33, pts[0].Value)
	require.NotNil(t, pts[0].Second)
	assert.Equal(t, 2.5, *pts[0].Second)
	assert.Nil(t, pts[1].Second)

	b, err := json.Marshal(pts[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","fullName":"x","a":1.33,"b":2.5}`, string(b))
}

func TestAggregateLabels(t *testing.T) {
	long := "Northern Territories Region"
	tb := table.New([]string{"cat", "val"}, []table.Row{{s(long), n(1)}, {s("exactly twenty chars"), n(2)}})
	pts, err := Aggregate(tb, "cat", "val", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Northern Territor...", pts[0].Name)
	assert.Equal(t, long, pts[0].FullName)
	assert.Equal(t, "exactly twenty chars", pts[1].Name)
}

func TestAggregateLimit(t *testing.T) {
	var rows []table.Row
	for i := 0; i < 60; i++ {
		rows = append(rows, table.Row{s(fmt.Sprintf("g%02d", i)), n(float64(i))})
	}
	tb := table.New([]string{"cat", "val"}, rows)

	pts, err := Aggregate(tb, "cat", "val", "", Options{})
	require.NoError(t, err)
	assert.Len(t, pts, DefaultLimit)
	assert.Equal(t, "g00", pts[0].Name)

	pts, err = Aggregate(tb, "cat", "val", "", Options{Limit: EnhancedLimit})
	require.NoError(t, err)
	assert.Len(t, pts, EnhancedLimit)

	pts, err = Aggregate(tb, "cat", "val", "", Options{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, pts, 60)
}

func TestAggregatePareto(t *testing.T) {
	tb := table.New([]string{"cat", "val"}, []table.Row{
		{s("small"), n(10)}, {s("big"), n(60)}, {s("mid"), n(30)},
	})
	pts, err := Aggregate(tb, "cat", "val", "", Options{Pareto: true})
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, []string{"big", "mid", "small"}, []string{pts[0].Name, pts[1].Name, pts[2].Name})
	assert.Equal(t, 60.0, *pts[0].Cumulative)
	assert.Equal(t, 90.0, *pts[1].Cumulative)
	assert.Equal(t, 100.0, *pts[2].Cumulative)
}

func TestAggregateUnknownColumns(t *testing.T) {
	tb := table.New([]string{"cat", "val"}, nil)
	var cnf *table.ColumnNotFoundError
	_, err := Aggregate(tb, "nope", "val", "", Options{})
	require.ErrorAs(t, err, &cnf)
	_, err = Aggregate(tb, "cat", "val", "other", Options{})
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, "other", cnf.Column)
}

func TestCounts(t *testing.T) {
	tb := table.New([]string{"cat"}, []table.Row{{s("a")}, {s("b")}, {s("a")}, {s("")}})
	pts, err := Counts(tb, "cat", Options{})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 2.0, pts[0].Value)
	b, err := json.Marshal(pts[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b","fullName":"b","count":1}`, string(b))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005000001))
	assert.Equal(t, 2.5, Round2(2.5))
	assert.Equal(t, -1.0, Round2(-1.004))
}
