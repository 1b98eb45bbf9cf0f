package main

import "condominio_backend/cmd"

func main() {
	cmd.Execute()
}
