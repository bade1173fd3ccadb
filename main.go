package main

import "github.com/klytics/salekit/cmd"

func main() {
	cmd.Execute()
}
