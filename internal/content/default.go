package content

// Default returns the built-in curriculum: three modules in a strict chain,
// each gated on the previous one.
func Default() *Catalog {
	return &Catalog{
		Modules: []ModuleDef{
			{
				ID:    1,
				Title: "Binary Foundations",
				Sections: []SectionDef{
					{ID: "bits-and-bytes", Title: "Bits and Bytes", EstimatedMinutes: 8},
					{ID: "counting-in-binary", Title: "Counting in Binary", EstimatedMinutes: 10},
					{ID: "binary-arithmetic", Title: "Binary Arithmetic", EstimatedMinutes: 12},
					{ID: "negative-numbers", Title: "Negative Numbers", EstimatedMinutes: 12},
					{ID: "foundations-review", Title: "Review: Binary Foundations", EstimatedMinutes: 6},
				},
			},
			{
				ID:            2,
				Title:         "Encoding Data",
				Prerequisites: []int{1},
				Sections: []SectionDef{
					{ID: "integers", Title: "Integers", EstimatedMinutes: 10},
					{ID: "floating-point", Title: "Floating Point", EstimatedMinutes: 15},
					{ID: "text-ascii", Title: "Text: ASCII", EstimatedMinutes: 8},
					{ID: "text-unicode", Title: "Text: Unicode", EstimatedMinutes: 12},
					{ID: "colors", Title: "Colors", EstimatedMinutes: 8},
					{ID: "images", Title: "Images", EstimatedMinutes: 10},
					{ID: "sound", Title: "Sound", EstimatedMinutes: 10},
					{ID: "compression", Title: "Compression", EstimatedMinutes: 14},
					{ID: "encoding-review", Title: "Review: Encoding Data", EstimatedMinutes: 6},
				},
			},
			{
				ID:            3,
				Title:         "Data in Motion",
				Prerequisites: []int{2},
				Sections: []SectionDef{
					{ID: "packets", Title: "Packets", EstimatedMinutes: 10},
					{ID: "addressing", Title: "Addressing", EstimatedMinutes: 10},
					{ID: "routing", Title: "Routing", EstimatedMinutes: 12},
					{ID: "names", Title: "Names and DNS", EstimatedMinutes: 10},
					{ID: "reliability", Title: "Reliable Delivery", EstimatedMinutes: 14},
					{ID: "encryption", Title: "Encryption in Transit", EstimatedMinutes: 14},
					{ID: "requests", Title: "Requests and Responses", EstimatedMinutes: 10},
					{ID: "apis", Title: "APIs", EstimatedMinutes: 10},
					{ID: "caching", Title: "Caching", EstimatedMinutes: 8},
					{ID: "failures", Title: "When Things Fail", EstimatedMinutes: 12},
					{ID: "motion-review", Title: "Review: Data in Motion", EstimatedMinutes: 6},
				},
			},
		},
		Achievements: []AchievementDef{
			{ID: "first-steps", Title: "First Steps", Criteria: "complete your first section"},
			{ID: "binary-pioneer", Title: "Binary Pioneer", Criteria: "complete all of Binary Foundations"},
			{ID: "halfway-there", Title: "Halfway There", Criteria: "reach 50% overall completion"},
			{ID: "encoder", Title: "Encoder", Criteria: "complete all of Encoding Data"},
			{ID: "course-champion", Title: "Course Champion", Criteria: "complete every module"},
		},
	}
}
