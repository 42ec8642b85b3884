package hunt

// PhotoItem is something a player can photograph to prove a checkpoint.
type PhotoItem struct {
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// PhotoCatalog lists the subjects handed out to checkpoints whose question
// names none.
var PhotoCatalog = []PhotoItem{
	{"White Pine Cone", "Trees", DifficultyEasy},
	{"Birch Bark", "Trees", DifficultyEasy},
	{"Red Maple Leaf", "Trees", DifficultyEasy},
	{"Moss-Covered Rock", "Nature", DifficultyEasy},
	{"Mushroom (any variety)", "Fungi", DifficultyMedium},
	{"Fern Frond", "Plants", DifficultyEasy},
	{"Deer Track", "Wildlife", DifficultyMedium},
	{"Hemlock Branch", "Trees", DifficultyMedium},
	{"Acorn", "Trees", DifficultyEasy},
	{"Wild Blueberry Bush", "Plants", DifficultyMedium},
	{"Cedar Branch", "Trees", DifficultyEasy},
	{"Lichen on Tree", "Nature", DifficultyMedium},
	{"Pine Needles (cluster)", "Trees", DifficultyEasy},
	{"Stream or Creek", "Water", DifficultyMedium},
	{"Bird Nest", "Wildlife", DifficultyHard},
	{"Wild Flower", "Plants", DifficultyMedium},
	{"Spider Web", "Wildlife", DifficultyMedium},
	{"Fallen Log", "Nature", DifficultyEasy},
}
