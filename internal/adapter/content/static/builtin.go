package staticcontent

import "talespin/internal/domain/adventure"

const DefaultGenre = "post-apocalypse"

var builtinPacks = map[string]pack{
	DefaultGenre: {
		MainQuests: []string{
			"Find the {artifact} buried somewhere beneath the ruins of {city} before the {faction} digs it out first.",
			"Escort {survivor_name} across the {wasteland_region} to the last working radio tower.",
			"Destroy the {faction}'s water-hoarding operation at {landmark} and free the valley settlements.",
			"Recover the seed vault hidden inside {landmark} and bring it home to {settlement}.",
			"Survive the crossing of the {wasteland_region} and deliver word of the {faction}'s advance to {settlement}.",
			"Rescue {survivor_name}, taken by the {faction} to their stronghold near {city}.",
		},
		SideEvents: []string{
			"A wounded stranger near {landmark} begs you to recover their satchel from a collapsed tunnel.",
			"A trade caravan bound for {settlement} offers supplies if you scout the road ahead.",
			"A child's radio crackles: someone is trapped in a cellar below the ruins of {city}.",
			"Scavengers have cornered a limping dog behind a rusted fuel depot and want it for the pot.",
			"An old hermit offers to trade a map of the {wasteland_region} for a working battery.",
			"Smoke rises from a camp that was quiet yesterday. Someone may need help, or already be past it.",
			"A {faction} deserter stumbles into your path, begging for cover before the patrol arrives.",
			"A half-buried pre-war vending machine hums faintly. It should not have power.",
		},
	},
	"space-opera": {
		MainQuests: []string{
			"Recover the {artifact} from the derelict flagship drifting beyond {station} before the {faction} salvage crews arrive.",
			"Escort the diplomat {survivor_name} through the {nebula_region} blockade to the summit at {station}.",
			"Sabotage the {faction}'s fuel refinery orbiting {planet} and break their grip on the outer lanes.",
		},
		SideEvents: []string{
			"A distress beacon pings from a mining skiff tumbling near {station}.",
			"A smuggler offers passage through the {nebula_region} in exchange for a blind favor.",
			"Dock control flags your transponder: a {faction} inspection team is boarding.",
		},
	},
}

var builtinPersonalities = []adventure.Personality{
	{
		Label:        "Mara, the cynical ex-medic",
		Traits:       map[string]float64{"caution": 0.7, "compassion": 0.8},
		GoalAffinity: []string{"rescue", "escort", "survive"},
		SideQuestBias: map[string]float64{
			"wounded": 1.5, "help": 1.0, "trapped": 1.0,
		},
	},
	{
		Label:        "Crow, the quiet scavenger king",
		Traits:       map[string]float64{"greed": 0.6, "cunning": 0.9},
		GoalAffinity: []string{"retrieve", "explore"},
		SideQuestBias: map[string]float64{
			"trade": 1.5, "map": 1.0, "supplies": 1.0,
		},
	},
	{
		Label:        "Sergeant Vale, the burned-out soldier",
		Traits:       map[string]float64{"aggression": 0.8, "loyalty": 0.7},
		GoalAffinity: []string{"destroy", "escort"},
		SideQuestBias: map[string]float64{
			"patrol": 1.5, "deserter": 1.0, "camp": 0.5,
		},
	},
	{
		Label:        "Whisper, the broken radio prophet",
		Traits:       map[string]float64{"madness": 0.6, "insight": 0.9},
		GoalAffinity: []string{"explore", "survive", "retrieve"},
		SideQuestBias: map[string]float64{
			"radio": 2.0, "hums": 1.0, "beacon": 1.5,
		},
	},
}
