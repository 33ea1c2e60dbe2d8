package seed

// TreeSpec is one tree of the default catalog with its nodes
type TreeSpec struct {
	Name         string
	Description  string
	Category     string
	DisplayOrder int
	Nodes        []NodeSpec
}

type NodeSpec struct {
	Level        int
	Title        string
	Description  string
	Requirements string
	Points       int
}

const (
	uploadCertificate = "File upload (certificate or official score report)."
	uploadLabAnswers  = "File upload with screenshots and answers"
	uploadLockImages  = "File upload (images showing you picking the locks)"
	weeklyTracking    = "Weekly submissions with data tracking"
	moduleAssignments = "Complete module assignments"
	finalProject      = "Complete final project"
	labDescription    = "Answer all analysis questions and the key terms quiz. Take screenshots of the last step in every lab."
)

// DefaultCatalog is the course catalog installed by the seed command
var DefaultCatalog = []TreeSpec{
	{
		Name:         "Capture the Flag",
		Description:  "Complete CTF challenges on various platforms",
		Category:     "hands-on",
		DisplayOrder: 1,
		Nodes: []NodeSpec{
			{1, "Metasploitable 3 CTF", "Find three (3) flags on a Metasploitable 3 machine.", "Upload screenshots in one Word document (or PDF) to Canvas", 100},
			{2, "OverTheWire - Bandit", "Find two (2) flags on OverTheWire Bandit.", "File upload (screenshots or a brief document showing your results).", 100},
			{3, "Hack The Box", "Complete two (2) live machines on Hack The Box (HTB) and capture the flags.", "File upload with screenshots showing proof of completion.", 150},
		},
	},
	{
		Name:         "Cloud Specialty",
		Description:  "Earn cloud computing certifications",
		Category:     "certification",
		DisplayOrder: 2,
		Nodes: []NodeSpec{
			{1, "AWS Cloud Practitioner", "Upload proof of passing the AWS Certified Cloud Practitioner exam", uploadCertificate, 200},
			{2, "Azure Fundamentals", "Upload proof of passing Microsoft Azure Fundamentals certification.", uploadCertificate, 200},
			{3, "Google Cloud Digital Leader", "Upload proof of passing Google Cloud Digital Leader certification.", uploadCertificate, 200},
		},
	},
	{
		Name:         "Lab Man",
		Description:  "Complete lab exercises and quizzes",
		Category:     "lab-work",
		DisplayOrder: 3,
		Nodes: []NodeSpec{
			{1, "Lab Exercises Set 1", labDescription, uploadLabAnswers, 100},
			{2, "Lab Exercises Set 2", labDescription, uploadLabAnswers, 100},
			{3, "Lab Exercises Set 3", labDescription, uploadLabAnswers, 100},
		},
	},
	{
		Name:         "Coding",
		Description:  "Complete programming language courses",
		Category:     "development",
		DisplayOrder: 4,
		Nodes: []NodeSpec{
			{1, "First Programming Language", "Complete one (1) programming language course on Codecademy.", "When you sign up, use the hacker name chosen for the hacker-name assignment.", 150},
			{2, "Second Programming Language", "Complete two (2) programming language courses on Codecademy.", "Use your hacker name on the account. Completing more than two courses may count as extra credit.", 200},
		},
	},
	{
		Name:         "Lock Picking",
		Description:  "Physical security: lock picking exercises",
		Category:     "physical",
		DisplayOrder: 5,
		Nodes: []NodeSpec{
			{1, "Pick 3 Locks", "Pick three (3) locks.", uploadLockImages, 75},
			{2, "Pick 6 Locks", "Pick six (6) locks.", uploadLockImages, 100},
			{3, "Pick 9 Locks", "Pick nine (9) locks", uploadLockImages, 125},
		},
	},
	{
		Name:         "Health Tracking",
		Description:  "Track health factors throughout the semester",
		Category:     "wellness",
		DisplayOrder: 6,
		Nodes: []NodeSpec{
			{1, "Track One Health Factor", "Track one (1) health factor over the course of the semester (e.g., Diet, Sleep, or Exercise).", weeklyTracking, 100},
			{2, "Track Two Health Factors", "Track two (2) health factors over the course of the semester.", weeklyTracking, 150},
			{3, "Track Three Health Factors", "Track three (3) health factors over the course of the semester.", weeklyTracking, 200},
		},
	},
	{
		Name:         "AI Deception and Social Engineering",
		Description:  "Learn about AI-powered social engineering",
		Category:     "ai-security",
		DisplayOrder: 7,
		Nodes: []NodeSpec{
			{1, "Module 1: AI & Social Manipulation", "Module 1: AI & Social Manipulation", moduleAssignments, 100},
			{2, "Module 2: Automated Phishing", "Module 2: Automated Phishing & Pretexting", moduleAssignments, 100},
			{3, "Module 3: Deepfake Fabrication", "Module 3: Deepfake Fabrication and Vishing", moduleAssignments, 100},
			{4, "Project: Human Defense", "Module 4: Project: Human Defense & Simulation", finalProject, 150},
		},
	},
	{
		Name:         "AI Model Forensics",
		Description:  "AI incident response and forensics",
		Category:     "ai-security",
		DisplayOrder: 8,
		Nodes: []NodeSpec{
			{1, "Module 1: Foundation", "Module 1: Foundation of AI Incident Response", moduleAssignments, 100},
			{2, "Module 2: Compromise Detection", "Module 2: Compromise Detection & Monitoring", moduleAssignments, 100},
			{3, "Module 3: Model Theft", "Module 3: Model Theft and Watermarking", moduleAssignments, 100},
			{4, "Project: Post-Incident", "Module 4: Project: Post-Incident Attribution", finalProject, 150},
		},
	},
}
