package domain

// SeedActivities returns the Mergington High School activity table that every
// store is initialised from. Each call returns fresh copies.
func SeedActivities() []*Activity {
	return []*Activity{
		NewActivity("Chess Club",
			"Learn strategies and compete in chess tournaments",
			"Fridays, 3:30 PM - 5:00 PM", 12,
			"michael@mergington.edu", "daniel@mergington.edu"),
		NewActivity("Programming Class",
			"Learn programming fundamentals and build software projects",
			"Tuesdays and Thursdays, 3:30 PM - 4:30 PM", 20,
			"emma@mergington.edu", "sophia@mergington.edu"),
		NewActivity("Gym Class",
			"Physical education and sports activities",
			"Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM", 30,
			"john@mergington.edu", "olivia@mergington.edu"),
		NewActivity("Soccer Team",
			"Join the school soccer team and compete in matches",
			"Tuesdays and Thursdays, 4:00 PM - 5:30 PM", 22,
			"liam@mergington.edu", "noah@mergington.edu"),
		NewActivity("Basketball Team",
			"Practice and play basketball with the school team",
			"Wednesdays and Fridays, 3:30 PM - 5:00 PM", 15,
			"ava@mergington.edu", "mia@mergington.edu"),
		NewActivity("Art Club",
			"Explore your creativity through painting and drawing",
			"Thursdays, 3:30 PM - 5:00 PM", 15,
			"amelia@mergington.edu", "harper@mergington.edu"),
		NewActivity("Drama Club",
			"Act, direct, and produce plays and performances",
			"Mondays and Wednesdays, 4:00 PM - 5:30 PM", 20,
			"ella@mergington.edu", "scarlett@mergington.edu"),
		NewActivity("Math Club",
			"Solve challenging problems and participate in math competitions",
			"Tuesdays, 3:30 PM - 4:30 PM", 10,
			"james@mergington.edu", "benjamin@mergington.edu"),
		NewActivity("Debate Team",
			"Develop public speaking and argumentation skills",
			"Fridays, 4:00 PM - 5:30 PM", 12,
			"charlotte@mergington.edu", "henry@mergington.edu"),
	}
}
