package config

import (
	"time"

	"AppScanner/internal/themes"
)

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Store: StoreConfig{
			BaseURL: "https://play.google.com",
			Lang:    "en",
			Country: "us",
			Timeout: 20 * time.Second,
		},
		Discovery: DiscoveryConfig{
			SeededAppIDs:      append([]string(nil), seededAppIDs...),
			Keywords:          append([]string(nil), keywords...),
			AppsPerKeyword:    20,
			SimilarSeedLimit:  15,
			SimilarAppsPerApp: 5,
		},
		Fetch: FetchConfig{
			Concurrency:      3,
			MinTotalReviews:  500,
			MaxReviewsPerApp: 3000,
			PageSize:         200,
			ReviewSort:       "newest",
			RequestDelay:     250 * time.Millisecond,
		},
		Relevance: RelevanceConfig{
			ExcludedAppIDs:     append([]string(nil), excludedAppIDs...),
			NegativeKeywords:   append([]string(nil), negativeKeywords...),
			PositiveKeywords:   append([]string(nil), positiveKeywords...),
			MinPositiveSignals: 2,
		},
		Themes: ThemesConfig{
			Taxonomy:         DefaultTaxonomy(),
			MinReviewLength:  100,
			ExamplesPerLabel: 15,
			MaxExcerptChars:  500,
		},
		Output: OutputConfig{
			Dir:         "out",
			JSON:        true,
			CSV:         true,
			PerApp:      true,
			MetricsFile: "out/metrics.prom",
		},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
	}
}

var seededAppIDs = []string{
	// offerwall / get-paid-to
	"com.prodege.swagbucksmobile",
	"com.mentormate.android.inboxdollars",
	"com.mistplay.mistplay",
	"com.tapgen.featurepoints",
	"com.requapp.requ",
	"com.survjun",
	"com.freecash.app2",
	"com.google.android.apps.paidtasks",
	"com.eureka.android",
	"de.empfohlen",
	"com.kashkick.kashkickapp",
	"us.current.android",
	"com.earnstar.games.earn.money",
	"com.apphype.surveystreak",
	"com.bestplay.app",
	"in.sweatco.app",
	"com.fetchrewards.fetchrewards.hop",
	"com.weward",
	// play-to-earn
	"com.justdice",
	"app.justplay.de",
	"com.wombat.money",
	"money.cash.giraffe",
	"com.scrambly.app",
	"com.snakzy.app",
	"com.copper.app",
	"com.ember.app",
	// surveys
	"com.qmee.app",
	"com.surveymonkey.rewards",
	"com.lifepoints.lps",
	"com.toluna.androidapp",
	"com.yougov.participate",
	"com.surveytime.app",
	"com.primeresearch.primeopinion",
	// cashback / receipts
	"com.ibotta.android",
	"com.shopkick.app",
	"com.infoscout.receipthog",
	"com.checkout51.android",
	"com.appcard.dosh",
}

var keywords = []string{
	"offerwall app",
	"GPT app earn",
	"get paid to app",
	"reward app offerwall",
	"earn money playing games",
	"paid surveys app",
	"survey rewards app",
	"complete tasks earn money",
	"watch videos earn money",
	"install apps earn cash",
	"cashback rewards app",
	"earn gift cards app",
	"play to earn rewards",
	"money making app legit",
	"earn paypal cash",
	"referral bonus app",
	"daily rewards app",
	"spin wheel earn money",
	"scratch cards earn money",
	"trivia game earn money",
	"swagbucks alternative",
	"mistplay alternative",
	"freecash alternative",
}

var excludedAppIDs = []string{
	// browsers
	"com.android.chrome", "com.chrome.beta", "com.chrome.dev", "org.mozilla.firefox",
	"com.opera.browser", "com.opera.mini.native", "com.microsoft.emmx", "com.brave.browser",
	"com.duckduckgo.mobile.android",
	// social
	"com.twitter.android", "com.instagram.android", "com.facebook.katana", "com.facebook.lite",
	"com.whatsapp", "com.snapchat.android", "com.zhiliaoapp.musically", "com.ss.android.ugc.trill",
	"com.pinterest", "com.linkedin.android", "com.reddit.frontpage", "com.tumblr", "com.discord",
	"org.telegram.messenger",
	// big tech and utilities
	"com.google.android.youtube", "com.google.android.apps.youtube.music", "com.google.android.gm",
	"com.google.android.apps.docs", "com.google.android.apps.maps", "com.google.android.apps.photos",
	"com.microsoft.office.outlook", "com.microsoft.teams", "com.amazon.mShop.android.shopping",
	"com.amazon.kindle", "com.ebay.mobile", "com.alibaba.aliexpresshd", "com.walmart.android",
	// streaming
	"com.netflix.mediaclient", "com.spotify.music", "com.hulu.plus", "com.disney.disneyplus",
	"com.amazon.avod.thirdpartyclient",
	// payments
	"com.paypal.android.p2pmobile", "com.venmo", "com.squareup.cash", "com.zellepay.zelle",
	// mainstream games
	"com.supercell.clashofclans", "com.supercell.clashroyale", "com.king.candycrushsaga",
	"com.rovio.angrybirds", "com.mojang.minecraftpe", "com.activision.callofduty.shooter",
	"com.pubg.krmobile",
	// exchanges
	"com.binance.dev", "com.coinbase.android", "com.kraken.trade",
}

var negativeKeywords = []string{
	"vpn", "antivirus", "cleaner", "booster", "battery", "wifi",
	"wallpaper", "launcher", "keyboard", "translator", "calculator",
	"weather", "flashlight", "camera", "photo editor", "video editor",
	"music player", "file manager", "browser", "pdf", "qr code",
	"dating", "social network", "messaging", "news", "podcast",
	"fitness tracker", "meditation", "sleep", "diet", "workout",
	"language learning", "education", "kids", "parental control",
	"remote control", "screen mirror", "recording", "notes", "calendar",
	"alarm", "timer", "compass", "speedometer", "scanner",
}

var positiveKeywords = []string{
	"earn", "reward", "cash", "money", "paid", "survey", "offerwall",
	"gift card", "paypal", "redeem", "points", "coins", "credits",
	"tasks", "offers", "watch videos", "install apps", "play games",
	"spin", "scratch", "trivia", "quiz", "lucky", "win", "prize",
	"cashback", "receipt", "shopping rewards", "referral", "bonus",
	"gpt", "get-paid-to", "make money", "side hustle", "passive income",
}

// DefaultTaxonomy is the built-in praise/complaint dictionary.
func DefaultTaxonomy() themes.Taxonomy {
	return themes.Taxonomy{
		Praise: []themes.Label{
			{Name: "pays_reliably", Substrings: []string{"pays", "paid", "payment", "withdraw", "cashout", "redeem", "received", "legit", "legitimate", "real money"}},
			{Name: "easy_to_use", Substrings: []string{"easy", "simple", "straightforward", "intuitive", "user friendly", "clean interface"}},
			{Name: "fun_engaging", Substrings: []string{"fun", "enjoy", "addictive", "entertaining", "love it", "great app"}},
			{Name: "good_variety", Substrings: []string{"variety", "options", "many offers", "lots of games", "many surveys", "different tasks"}},
			{Name: "fast_payout", Substrings: []string{"fast payout", "quick payout", "instant", "same day", "within minutes", "quick cash", "fast redemption"}},
			{Name: "good_rates", Substrings: []string{"good rates", "pays well", "high paying", "worth it", "good value", "pays more than"}},
			{Name: "low_minimum", Substrings: []string{"low minimum", "low threshold", "easy to reach", "quick to redeem"}},
			{Name: "reliable_tracking", Substrings: []string{"tracks well", "always credits", "tracking works", "never missed"}},
		},
		Complaint: []themes.Label{
			{Name: "not_credited", Substrings: []string{
				"not credited", "didn't credit", "no credit", "missing points", "missing credits",
				"not tracking", "stopped tracking", "progress not", "doesn't track", "lost my points",
				"offer didn't credit", "never got credited", "pending forever",
			}},
			{Name: "withdrawal_issues", Substrings: []string{
				"can't withdraw", "withdrawal failed", "cashout failed", "can't cash out",
				"pending", "never received", "won't pay", "waiting for payment", "payout pending",
				"minimum too high", "threshold too high", "can't redeem",
			}},
			{Name: "scam_suspicion", Substrings: []string{
				"scam", "fraud", "fake", "ripoff", "rip off", "waste of time", "don't trust",
				"stealing", "never pays", "total scam", "complete scam", "avoid this",
			}},
			{Name: "too_many_ads", Substrings: []string{
				"too many ads", "constant ads", "ads everywhere", "annoying ads", "ad after ad",
				"more ads than", "forced ads", "unskippable ads", "ads every second",
			}},
			{Name: "poor_support", Substrings: []string{
				"no support", "customer service", "no response", "ignored", "bot reply", "no help",
				"useless support", "never replied", "automated response", "can't contact",
			}},
			{Name: "account_banned", Substrings: []string{
				"banned", "blocked", "suspended", "account disabled", "terminated", "kicked out",
				"banned for no reason", "false ban", "wrongly banned",
			}},
			{Name: "bugs_crashes", Substrings: []string{
				"bug", "glitch", "crash", "freeze", "broken", "not working", "doesn't work",
				"keeps crashing", "error", "laggy", "slow", "won't load", "black screen",
			}},
			{Name: "low_earnings", Substrings: []string{
				"pays too little", "not worth", "waste of time", "barely earn", "takes forever",
				"low pay", "pennies", "cents per hour", "impossible to earn",
			}},
			{Name: "no_offers", Substrings: []string{
				"no offers", "no surveys", "nothing available", "empty", "surveys always full",
				"never qualify", "disqualified", "no tasks", "dried up",
			}},
		},
		Fixed: []string{"fixed", "resolved", "after update", "now works", "they fixed", "issue fixed", "problem solved", "working now"},
	}
}
