package actor

import "fmt"

const (
	// HitThreshold is the d20 result that must be exceeded to land a blow.
	HitThreshold = 10
	// MinDamage and MaxDamage bound a successful hit.
	MinDamage = 5
	MaxDamage = 15
)

// Attack resolves one player swing against an enemy with enemyHealth points.
// The attack roll happens first and the damage roll second; damage only lands
// when the attack roll beats HitThreshold. Enemy health never drops below 0.
func Attack(r Roller, enemyHealth int) (string, int) {
	roll := D20(r)
	damage := r.Roll(MinDamage, MaxDamage)
	if roll <= HitThreshold {
		return "Attack missed!", enemyHealth
	}
	enemyHealth -= damage
	if enemyHealth < 0 {
		enemyHealth = 0
	}
	return fmt.Sprintf("Attack successful! You dealt %d damage.", damage), enemyHealth
}

// EnemyAttack resolves the enemy's counter-attack against the player and
// returns the message and the damage taken. The roll must beat the player's AC.
func (p *Player) EnemyAttack(r Roller) (string, int) {
	roll := D20(r)
	if roll <= p.AC() {
		return "The enemy misses their attack!", 0
	}
	damage := r.Roll(MinDamage, MaxDamage)
	p.TakeDamage(damage)
	return fmt.Sprintf("The enemy attacks! You take %d damage.", damage), damage
}

// Flee ends a fight without a winner.
func Flee() string {
	return "You fled the battle."
}
