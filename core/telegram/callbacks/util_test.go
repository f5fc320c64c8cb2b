package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"encoded", &tele.Callback{Data: "\fsd_reset|1"}, "sd_reset", "1"},
		{"no payload", &tele.Callback{Data: "\fsd_status"}, "sd_status", ""},
		{"bare", &tele.Callback{Data: "menu"}, "menu", ""},
		{"unique wins", &tele.Callback{Unique: "obj_reset", Data: "x"}, "obj_reset", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := Parse(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "sd_reset", Join("sd", "reset"))
}
