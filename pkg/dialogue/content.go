package dialogue

// DefaultPool returns a pool loaded with the stock table dialogue. Dealer
// suspicion lines are keyed by dealer personality.
func DefaultPool() *Pool {
	p := NewPool()

	p.Add(Generic, Opener,
		"Welcome in. Buy-in ready when you are.",
		"Fresh shoe, good luck everyone.",
		"Evening folks, let's keep it friendly and fun.")
	p.Add(Generic, DealerQuestion,
		"Insurance anyone?",
		"Checks play?",
		"Would you like to cut the deck?",
		"Are you comfortable with the table limits?")
	p.Add(Generic, PlayerQuestion,
		"How many decks are we running?",
		"Do you hit soft 17 here?",
		"What are the surrender rules at this table?",
		"Can I get change for these bills?")
	p.Add(Generic, SmallTalk,
		"Quiet night or is this the calm before the rush?",
		"You always deal this smooth?",
		"How long you been dealing?",
		"Anyone hit a hot streak earlier?")
	p.Add(Generic, HeatMoment,
		"Let's keep the table moving, folks.",
		"Try to keep hands visible on the felt.",
		"Eye in the sky says hello.",
		"Let's not coach other players, please.")
	p.Add(Generic, Exit,
		"Good luck on your next table.",
		"Thanks for playing, appreciate the good energy.",
		"My relief's here. Play nice for them.")
	p.Add(Generic, Blackjack, "Blackjack! Pay me!", "Now that's how you start a hand.")
	p.Add(Generic, Bust, "Too many.", "Ugh, should have stayed.")
	p.Add(Generic, BigWin, "Nice hand!", "Keep it coming.")

	p.Add(PitBoss, PitBossApproach,
		"Evening. How are the cards treating you?",
		"Haven't seen you here before. Staying long?",
		"Quite a run you're having tonight.",
		"Mind if I watch a few hands?")

	p.Add("counter", SuspicionLow,
		"Nice play. Very... textbook.",
		"You've been studying, haven't you?",
		"Interesting bet sizing tonight.")
	p.Add("counter", SuspicionMedium,
		"*whispers* Careful with the spread.",
		"Pit boss is making rounds. Just so you know.",
		"Maybe dial it back a notch? Trust me on this.")
	p.Add("counter", SuspicionHigh,
		"*quietly* You're good, but you're getting obvious.",
		"The pit is watching. Blend in a bit.")
	p.Add("counter", CallingPitBoss,
		"*nods subtly* You're golden. Keep playing.",
		"*deals slower* Take your time with this one.")

	p.Add("rookie", SuspicionLow,
		"Wow, you're really good at this!",
		"How do you know when to bet more? Lucky feeling?")
	p.Add("rookie", SuspicionMedium,
		"You must have a system! Can you teach me?",
		"My supervisor said something about spreads but I don't get it.")
	p.Add("rookie", SuspicionHigh,
		"You're winning so much! Beginner's luck?",
		"Should I be noticing something? The pit boss keeps looking over.")
	p.Add("rookie", CallingPitBoss,
		"I should probably ask my supervisor something... but I forget what!")

	p.Add("strict", SuspicionLow,
		"Bet spread noted.",
		"Watching you closely tonight.",
		"Interesting decision there.")
	p.Add("strict", SuspicionMedium,
		"That's quite a jump in bet size.",
		"I've seen this pattern before.",
		"You're playing awfully... precise.")
	p.Add("strict", SuspicionHigh,
		"I'm going to need you to keep bets more consistent.",
		"This spread is raising some flags.")
	p.Add("strict", CallingPitBoss,
		"Pit boss, got a minute? We need to discuss this player.",
		"I'm calling it. Pit boss en route.")

	p.Add("friendly", SuspicionLow,
		"Hey, nice play! You know your stuff.",
		"Someone's been doing their homework!")
	p.Add("friendly", SuspicionMedium,
		"Haha, you're making the house sweat a little!",
		"Pit boss might notice the spread, but hey, play your game.")
	p.Add("friendly", SuspicionHigh,
		"*smiles* You're good. Maybe too good for management's liking.",
		"Between you and me? Cool it on the big jumps.")
	p.Add("friendly", CallingPitBoss,
		"*sighs* Boss, you wanted me to tell you if... yeah.",
		"Management wants a word. Sorry buddy, not my call.")

	p.Add("oblivious", SuspicionLow,
		"Hmm? Oh, nice hand.",
		"Bet's in the circle? Good, good.")
	p.Add("oblivious", SuspicionMedium,
		"Lotta chips moving around... or is that just me?",
		"Pit boss said something earlier... can't remember what.")
	p.Add("oblivious", SuspicionHigh,
		"Did someone say something about... what was it?",
		"Is it break time yet? Feels like break time.")
	p.Add("oblivious", CallingPitBoss,
		"*yawns* If it's important, they'll come over themselves.")

	p.Add("veteran", SuspicionLow,
		"You know the game well.",
		"Solid basic strategy.")
	p.Add("veteran", SuspicionMedium,
		"That's a notable spread you're running.",
		"You're tracking something, aren't you?")
	p.Add("veteran", SuspicionHigh,
		"I've dealt to hundreds of counters. You're good, but not invisible.",
		"Keep it subtle or I'll have to make a call.")
	p.Add("veteran", CallingPitBoss,
		"Pit boss, can you evaluate this player's action?",
		"Making the call. This one's too obvious.")

	p.Add("drunk-danny", SmallTalk,
		"You deal smoother than my bartender pours.",
		"I beat the house once. Might've been Monopoly.")
	p.Add("drunk-danny", Bust, "Is the felt supposed to sway or is that me?")
	p.Add("chatty-carlos", SmallTalk,
		"Did I ever tell you about my cousin's taco truck?",
		"Dealer, you ever been to Reno? Let me tell you.")
	p.Add("superstitious-susan", SmallTalk,
		"Never split on a Tuesday. Everybody knows that.",
		"My jade bracelet is warm. Good sign.")
	p.Add("cocky-kyle", BigWin, "That's how Big K does it!", "Too easy.")
	p.Add("nervous-nancy", SmallTalk, "Is it hit on twelve against a two? I always forget.")
	p.Add("lucky-larry", Blackjack, "Told you. The gut never lies.")
	p.Add("unlucky-ursula", Bust, "Of course. Of course it's a ten.")

	return p
}
