package seed

import "github.com/DoyleJ11/clan-vaults-backend/internal/model"

type clanTheme struct {
	Prefix string
	Emoji  string
	Theme  string
}

var clanThemes = []clanTheme{
	// tech
	{"Cyber", "🤖", "Tech Warriors"},
	{"Neon", "🌈", "Digital Lights"},
	{"Quantum", "⚛️", "Quantum Realm"},
	{"Plasma", "🔥", "Energy Beings"},
	{"Digital", "💾", "Data Spirits"},
	{"Hologram", "👻", "Light Projections"},
	{"Matrix", "🔢", "Code Guardians"},
	{"Binary", "🔣", "Logic Masters"},
	{"Chrome", "🔘", "Metal Beings"},
	{"Laser", "⚡", "Light Warriors"},
	// mythical
	{"Cosmic", "🌌", "Space Dwellers"},
	{"Astral", "🌟", "Star Travelers"},
	{"Void", "🕳️", "Dark Dimension"},
	{"Crystal", "💎", "Gem Guardians"},
	{"Shadow", "🌑", "Dark Arts"},
	{"Lightning", "⚡", "Storm Bringers"},
	{"Frost", "❄️", "Ice Kingdom"},
	{"Flame", "🔥", "Fire Empire"},
	{"Wind", "💨", "Air Nomads"},
	{"Earth", "🌍", "Ground Force"},
	// animal kingdoms
	{"Alpha", "🐺", "Pack Leaders"},
	{"Royal", "🦁", "Noble Beasts"},
	{"Wild", "🐅", "Savage Hunters"},
	{"Flying", "🦅", "Sky Rulers"},
	{"Ocean", "🐋", "Sea Legends"},
	{"Forest", "🦌", "Wood Spirits"},
	{"Desert", "🐪", "Sand Walkers"},
	{"Arctic", "🐧", "Ice Dwellers"},
	{"Jungle", "🐒", "Vine Swingers"},
	{"Mountain", "🐻", "Peak Climbers"},
}

var animalTypes = []string{
	"Dragons", "Wolves", "Lions", "Eagles", "Bears", "Tigers", "Hawks", "Sharks",
	"Panthers", "Foxes", "Ravens", "Phoenixes", "Unicorns", "Griffins", "Serpents",
	"Spiders", "Scorpions", "Beetles", "Butterflies", "Owls", "Falcons", "Whales",
	"Dolphins", "Octopi", "Jellyfish", "Turtles", "Rhinos", "Elephants", "Hippos",
	"Crocodiles", "Cobras", "Vipers", "Pythons", "Lizards", "Geckos", "Chameleons",
	"Rabbits", "Deer", "Horses", "Zebras", "Giraffes", "Kangaroos", "Koalas",
	"Pandas", "Monkeys", "Gorillas", "Chimps", "Sloths", "Armadillos", "Anteaters",
}

var traitPrefixes = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Omega", "Prime", "Elite", "Royal",
	"Ancient", "Mystic", "Shadow", "Light", "Dark", "Golden", "Silver", "Bronze",
	"Fire", "Ice", "Storm", "Earth", "Void", "Cosmic", "Astral", "Divine",
}

// ActivityUsers are the handles used for synthetic feed activity.
var ActivityUsers = []string{
	"CryptoWarrior", "NFTMaster", "DigitalNomad", "BlockchainBoss",
	"MetaVerse", "CyberPunk", "QuantumLeap", "AstralTrader",
	"NeonCollector", "VoidWalker", "CrystalMiner", "PlasmaHunter",
}

var momentumReasons = []string{
	"High trading volume", "New partnerships", "Staking rewards distributed", "Community event",
}

var categoryPrefixes = map[string][]string{
	"tech":    {"cyber", "neon", "digital", "matrix", "binary", "chrome", "laser", "hologram"},
	"space":   {"cosmic", "astral", "void", "plasma", "quantum"},
	"fantasy": {"crystal", "shadow", "lightning", "frost", "flame", "wind", "earth"},
}

// Sellers are the handles that list NFTs on the trading floor.
var Sellers = []string{"CryptoKing", "NFTMaster", "WarriorX", "DragonSlayer"}

var treasureTable = []model.Treasure{
	{ID: 1, Name: "Weekly Champion Chest", Value: 50000, Rarity: model.RarityLegendary},
	{ID: 2, Name: "Battle Victory Reward", Value: 5000, Rarity: model.RarityEpic, Claimed: true},
	{ID: 3, Name: "Clan Participation Bonus", Value: 1000, Rarity: model.RarityRare},
	{ID: 4, Name: "Daily Login Streak", Value: 500, Rarity: model.RarityCommon},
}

var rarityWeights = []float64{0.60, 0.25, 0.12, 0.03}

// Per-momentum constants for clan stats and the cosmetic reward pool.
var (
	baseMembers = map[model.Momentum]int{
		model.MomentumHot: 2000, model.MomentumValue: 1500, model.MomentumNew: 800, model.MomentumSteady: 1200,
	}
	baseFloorPrice = map[model.Momentum]float64{
		model.MomentumHot: 3.0, model.MomentumValue: 4.5, model.MomentumNew: 1.0, model.MomentumSteady: 2.0,
	}
	BasePoolValues = map[model.Momentum]float64{
		model.MomentumHot: 50000, model.MomentumNew: 25000, model.MomentumValue: 75000, model.MomentumSteady: 35000,
	}
)

const (
	ClanCount         = 100
	NFTsPerClan       = 100
	NFTPoolShare      = 0.001
	MinMintPrice      = 0.05
	MaxMintPrice      = 0.25
	DefaultMintPrice  = 0.1
	DefaultUserID     = "user-1"
	DefaultUserClanID = "cyber-dragons"
)

// Arena constants. Prices are in APT.
const (
	BattleCount      = 50
	BattlesPerWeek   = 10
	CurrentWeek      = 1
	ListingsPerClan  = 8
	StarterCardPrice = 10
	MaxNFTLevel      = 50
)
