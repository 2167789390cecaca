package catalog

import "github.com/shaomun/dnaminer/server/internal/domain/player"

// Default returns the stock DNA-mining configuration: ten levels, two
// boosters, the ten-item miner shop and the two social tasks.
func Default() *Catalog {
	return &Catalog{
		LevelThresholds: []int64{
			1000, 5000, 20000, 50000, 100000,
			200000, 500000, 1000000, 2000000, 5000000,
		},
		LevelNames: []string{
			"Beginner", "Novice", "Intermediate", "Advanced", "Expert",
			"Master", "Elite", "Champion", "Legend", "Supreme",
		},
		Boosters: []Booster{
			{Key: player.BoosterMultitap, Name: "MultiTap", Cost: 1000, Multiplier: 2},
			{Key: player.BoosterEnergyLimit, Name: "Energy+", Cost: 2000, EnergyBonus: 5},
		},
		Miners: []Miner{
			{
				ID:            "genome-accelerator",
				Title:         "Genome Accelerator Pass",
				Description:   "Unleash the speed of evolution! This pass upgrades your DNA replication to warp speed, doubling your mining rewards in no time.",
				Cost:          992,
				ProfitPerHour: 300,
				LevelRequired: 1,
			},
			{
				ID:            "double-helix",
				Title:         "Double Helix Turbocharger",
				Description:   "Twist your way to victory! Amplify your mining speed by energizing your DNA strands with this turbo boost.",
				Cost:          2500,
				ProfitPerHour: 800,
				LevelRequired: 2,
			},
			{
				ID:            "elite-biolab",
				Title:         "Elite BioLab Pass",
				Description:   "Welcome to the lab of legends! Only the finest DNA sequences get mined here, with rewards flowing faster than ever.",
				Cost:          5000,
				ProfitPerHour: 1500,
				LevelRequired: 3,
			},
			{
				ID:            "mutation-surge",
				Title:         "Mutation Surge",
				Description:   "Sometimes evolution gets a lucky break—activate a Mutation Surge to supercharge your mining and discover rare bonuses!",
				Cost:          10000,
				ProfitPerHour: 3000,
				LevelRequired: 4,
			},
			{
				ID:            "genome-builder",
				Title:         "Genome Builder Boost",
				Description:   "Stack those nucleotides like a pro! Build longer DNA strands and watch your rewards multiply.",
				Cost:          20000,
				ProfitPerHour: 6000,
				LevelRequired: 5,
			},
			{
				ID:            "epigenetic-power",
				Title:         "Epigenetic Power-Up",
				Description:   "Unlock the hidden potential in your genes—boost your mining rate by flipping the right molecular switches!",
				Cost:          50000,
				ProfitPerHour: 12000,
				LevelRequired: 6,
			},
			{
				ID:            "replication-accelerator",
				Title:         "Replication Accelerator",
				Description:   "Replicate faster than nature intended! Outpace your peers with lightning-fast DNA copying.",
				Cost:          100000,
				ProfitPerHour: 25000,
				LevelRequired: 7,
			},
			{
				ID:            "legendary-extractor",
				Title:         "Legendary Gene Extractor",
				Description:   "Only the rarest DNA sequences make history. Discover one, and watch your mining speed skyrocket!",
				Cost:          200000,
				ProfitPerHour: 50000,
				LevelRequired: 8,
			},
			{
				ID:            "genome-mapping",
				Title:         "Genome Mapping License",
				Description:   "Chart the uncharted! Explore hidden DNA regions for massive boosts and secret rewards.",
				Cost:          500000,
				ProfitPerHour: 100000,
				LevelRequired: 9,
			},
			{
				ID:            "evolutionary-leap",
				Title:         "Evolutionary Leap Token",
				Description:   "Jump up the evolutionary ladder—from single-cell to apex miner in record time!",
				Cost:          1000000,
				ProfitPerHour: 200000,
				LevelRequired: 10,
			},
		},
		Tasks: []Task{
			{Key: player.TaskTelegram, Title: "Join our TG channel", URL: "https://t.me/shaomun", Reward: 5000},
			{Key: player.TaskTwitter, Title: "Follow our X account", URL: "https://x.com/mun336699", Reward: 5000},
		},
		Daily: Daily{
			BaseReward: 500,
			CycleDays:  10,
		},
		Timing: Timing{
			VerificationDelaySeconds: 6,
			RechargeCooldownMinutes:  60,
		},
		Starting: Starting{
			Energy:        1000,
			EnergyCap:     1000,
			EarnPerTap:    2,
			ProfitPerHour: 100,
			EnergyCharges: 6,
		},
		ReferralLink: "https://t.me/dnaminer_bot?start=ref",
	}
}
