package standards

import "fmt"

func lookupErr(table, key string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownCoefficient, table, key)
}
