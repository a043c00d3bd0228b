package main

import "github.com/TambongStercy/stageassets-frontend-sub000/cmd"

func main() {
	cmd.Execute()
}
