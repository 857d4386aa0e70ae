package main

import "github.com/MMHameed52/Inventory-Tracker/cmd"

func main() {
	cmd.Execute()
}
