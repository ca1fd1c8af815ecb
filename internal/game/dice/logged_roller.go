package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. It satisfies Source itself, so it can be
// handed to any generator; dice-expression rolls made through it are logged at
// debug level with expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source without logging.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Roll evaluates expr and logs the result at debug level.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// rollLogger is implemented by sources that want to observe expression rolls.
type rollLogger interface {
	Roll(expr Expression) RollResult
}

// RollWith rolls expr through src, logging when src is a *Roller.
func RollWith(expr Expression, src Source) RollResult {
	if rl, ok := src.(rollLogger); ok {
		return rl.Roll(expr)
	}
	return Roll(expr, src)
}
