package main

import "github.com/FlipSniper/ebay-review-whisperer/internal/app"

func main() {
	app.Main()
}
