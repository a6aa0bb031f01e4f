package viz

// Intro explains the apparatus. It is shown by the help overlay and the
// about command.
const Intro = `Hydraulic press

+-------------+
|    +      + |
|====|      | |       = is the piston
|    |      | |
|wwww|      |w|
|wwww+------+w|       w is water
|wwwwwwwwwwwww|
+-------------+

The bigger side holds more fluid and exerts more force than the smaller
side, but the pressure both sides exert at the bottom is the same.
Pressure is force divided by area, so it depends only on the height of
the water column:

    P = density * height * gravity

It does not depend on the cross section of the pipe. Gravity pulls the
fluid down, but the fluid transmits the pressure in every direction.

Pushing the piston adds pressure to the left (big) side and the water
rises on the right. Pulling it lowers the pressure on the left, making a
vacuum that draws water from right to left.`
