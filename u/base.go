// Package u has small helpers shared by the contacts command and packages.
package u

func Must(err error) {
	if err != nil {
		panic(err)
	}
}
