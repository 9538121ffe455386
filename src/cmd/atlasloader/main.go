// Command atlasloader prints the postgres schema of the models for Atlas.
package main

import (
	"fmt"
	"io"
	"os"
	"salonbook/src/db"

	"ariga.io/atlas-provider-gorm/gormschema"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(db.Models()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	io.WriteString(os.Stdout, stmts)
	io.WriteString(os.Stdout, db.ActiveSlotIndex+";\n")
}
