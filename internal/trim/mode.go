package trim

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects which equilibrium axes a trim run solves. Numeric values follow the
// mode numbers accepted by the simulation/do_simple_trim command.
type Mode int

const (
	Longitudinal Mode = 0
	Full         Mode = 1
	Ground       Mode = 2
	Pullup       Mode = 3
	Custom       Mode = 4
	Turn         Mode = 5
	None         Mode = 6
)

var modeNames = map[Mode]string{
	Longitudinal: "longitudinal",
	Full:         "full",
	Ground:       "ground",
	Pullup:       "pullup",
	Custom:       "custom",
	Turn:         "turn",
	None:         "none",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Supported reports whether Run can solve this mode.
func (m Mode) Supported() bool {
	return m == Longitudinal || m == Full || m == None
}

// ParseMode accepts a mode name or its number.
func ParseMode(s string) (Mode, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if token == "" {
		return None, nil
	}
	if n, err := strconv.Atoi(token); err == nil {
		m := Mode(n)
		if _, ok := modeNames[m]; !ok {
			return None, fmt.Errorf("%w: %d", ErrIllegalMode, n)
		}
		return m, nil
	}
	for m, name := range modeNames {
		if name == token {
			return m, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrIllegalMode, s)
}
