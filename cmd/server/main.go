package main

import "labquote/go_backend/internal/app"

func main() {
	app.Run()
}
