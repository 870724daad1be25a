// Package dice provides die rolling and dice-formula evaluation.
package dice

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/tabletopforge/encounter-api/internal/errors"
)

//go:generate mockgen -destination=mock/mock.go -package=dicemock github.com/tabletopforge/encounter-api/internal/pkg/dice Roller

// Roller produces individual die results
type Roller interface {
	// Roll returns a uniform value in [1, sides]
	Roll(sides int) int
}

type randRoller struct{}

func (randRoller) Roll(sides int) int {
	return rand.IntN(sides) + 1
}

// NewRoller returns a Roller backed by math/rand
func NewRoller() Roller {
	return randRoller{}
}

// D20 rolls a single twenty-sided die
func D20(r Roller) int {
	return r.Roll(20)
}

// RollInitiative rolls a d20 and adds the initiative bonus
func RollInitiative(r Roller, bonus int) int {
	return D20(r) + bonus
}

// Result holds the outcome of evaluating a dice formula
type Result struct {
	Total   int
	Details string
}

// Matches dice terms like 2d6+3, d20, 4d8-2
var termRegex = regexp.MustCompile(`(\d+)?[dD](\d+)([+-]\d+)?`)

const (
	maxDiceCount = 100
	maxDieSides  = 1000
)

// Eval parses a dice formula such as "2d6+3" or "1d20 + 1d4-1" and rolls
// every term. A formula with no dice terms is accepted if it is a plain
// integer; anything else is an InvalidArgument error.
func Eval(r Roller, formula string) (*Result, error) {
	trimmed := strings.ToLower(strings.TrimSpace(formula))
	if trimmed == "" {
		return nil, errors.InvalidArgument("dice formula is empty")
	}

	matches := termRegex.FindAllStringSubmatch(trimmed, -1)
	if len(matches) == 0 {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid dice formula: %s", formula)
		}
		return &Result{Total: n, Details: strconv.Itoa(n)}, nil
	}

	total := 0
	details := make([]string, 0, len(matches))

	for _, m := range matches {
		count := 1
		if m[1] != "" {
			c, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, errors.InvalidArgumentf("invalid dice count in formula: %s", formula)
			}
			count = c
		}

		sides, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid die size in formula: %s", formula)
		}

		modifier := 0
		if m[3] != "" {
			mod, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, errors.InvalidArgumentf("invalid modifier in formula: %s", formula)
			}
			modifier = mod
		}

		if count <= 0 || sides <= 0 {
			return nil, errors.InvalidArgumentf("dice count and size must be positive: %s", formula)
		}
		if count > maxDiceCount || sides > maxDieSides {
			return nil, errors.InvalidArgumentf("dice term too large: %s", formula)
		}

		rolls := make([]string, count)
		sum := 0
		for i := 0; i < count; i++ {
			v := r.Roll(sides)
			sum += v
			rolls[i] = strconv.Itoa(v)
		}

		total += sum + modifier

		detail := fmt.Sprintf("%dd%d%s: [%s]", count, sides, m[3], strings.Join(rolls, ", "))
		if modifier != 0 {
			detail += fmt.Sprintf(" %+d", modifier)
		}
		detail += fmt.Sprintf(" = %d", sum+modifier)
		details = append(details, detail)
	}

	return &Result{
		Total:   total,
		Details: strings.Join(details, " | "),
	}, nil
}
