package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntime(t *testing.T) {
	assert.Equal(t, "2h 5m", Runtime(125))
	assert.Equal(t, "0h 45m", Runtime(45))
	assert.Equal(t, Unknown, Runtime(0))
}

func TestBudget(t *testing.T) {
	assert.Equal(t, "$1.5M", Budget(1_500_000))
	assert.Equal(t, "$356.0M", Budget(356_000_000))
	assert.Equal(t, "$2.5K", Budget(2_500))
	assert.Equal(t, "$999", Budget(999))
	assert.Equal(t, Unknown, Budget(0))
}

func TestYearAndDate(t *testing.T) {
	assert.Equal(t, "1999", Year("1999-03-31"))
	assert.Equal(t, Unknown, Year(""))
	assert.Equal(t, Unknown, Year("abcd-01-01"))
	assert.Equal(t, "1999/3/31", Date("1999-03-31"))
	assert.Equal(t, Unknown, Date("soon"))
}

func TestPopularityAndGender(t *testing.T) {
	assert.Equal(t, "12.3", Popularity(12.345))
	assert.Equal(t, "N/A", Popularity(0))
	assert.Equal(t, "女", Gender(1))
	assert.Equal(t, "男", Gender(2))
	assert.Equal(t, Unknown, Gender(3))
}

func TestDepartment(t *testing.T) {
	assert.Equal(t, "导演", Department("Directing", "zh-CN"))
	assert.Equal(t, "服装与化妆", Department("Costume & Make-Up", "zh-TW"))
	assert.Equal(t, "Directing", Department("Directing", "en-US"))
	assert.Equal(t, "Stunts", Department("Stunts", "zh-CN"))
}
