package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) > 3 {
		log.Fatalln("too many arguments") // want "avoid using log.Fatalln in main.main"
	}
	if len(os.Args) > 2 {
		os.Exit(2) // want "avoid using os.Exit in main.main"
	}
	defer func() {
		os.Exit(1) // want "avoid using os.Exit in main.main"
	}()
	fail()
}

func fail() {
	os.Exit(1)
}
