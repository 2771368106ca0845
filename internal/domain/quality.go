package domain

import "fmt"

// Quality rates how well a word was recalled during review, on the 0-5 scale
// used by SM-2.
type Quality int

// Quality values, from complete blackout to perfect recall.
const (
	QualityBlackout          Quality = 0
	QualityIncorrect         Quality = 1
	QualityIncorrectFamiliar Quality = 2
	QualityCorrectDifficult  Quality = 3
	QualityCorrectHesitation Quality = 4
	QualityPerfect           Quality = 5
)

// QualityPassThreshold is the lowest quality that counts as a successful
// recall. Anything below it is a lapse.
const QualityPassThreshold = QualityCorrectDifficult

// QualityFromRecall maps a binary "knew it" / "didn't know" judgment onto the
// fine-grained scale. "Didn't know" maps to 2, which is below the pass
// threshold and therefore always a lapse.
func QualityFromRecall(knew bool) Quality {
	if knew {
		return QualityPerfect
	}
	return QualityIncorrectFamiliar
}

// Validate reports ErrInvalidQuality when q is outside [0, 5].
func (q Quality) Validate() error {
	if q < QualityBlackout || q > QualityPerfect {
		return fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidQuality, int(q), QualityBlackout, QualityPerfect)
	}
	return nil
}

// IsPass reports whether q counts as a successful recall.
func (q Quality) IsPass() bool {
	return q >= QualityPassThreshold
}
