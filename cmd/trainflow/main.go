// Command trainflow runs the TrainFlow workout-planning API and its
// maintenance tasks.
//
//	@title						TrainFlow API
//	@version					1.0
//	@description				Workout planning: video catalog, weekly schedule, completion tracking, preferences and coach chat.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
